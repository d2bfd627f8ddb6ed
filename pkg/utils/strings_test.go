package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Men's T-Shirt!":      "mens-t-shirt",
		"  Galaxy   Fold  ":   "galaxy-fold",
		"UPPER case":          "upper-case",
		"---already-sluggy--": "already-sluggy",
		"سلام":                "",
		"":                    "",
	}
	for input, want := range cases {
		assert.Equal(t, want, GenerateSlug(input), "input %q", input)
	}

	// idempotent
	once := GenerateSlug("Men's T-Shirt!")
	assert.Equal(t, once, GenerateSlug(once))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 20, ParseInt("", 20))
	assert.Equal(t, 20, ParseInt("abc", 20))
	assert.Equal(t, 7, ParseInt("7", 20))
	assert.Equal(t, -3, ParseInt("-3", 20))
}
