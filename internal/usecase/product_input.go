package usecase

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"kalabin-backend/internal/domain"

	"github.com/goccy/go-json"
)

// ProductPatch is a raw product write body. Keeping the fields as raw JSON
// lets the pipeline distinguish absent keys, explicit nulls and supplied
// values, which drives the clear-vs-validate decision on updates.
type ProductPatch map[string]json.RawMessage

// DecodeProductPatch reads a JSON object body into a patch.
func DecodeProductPatch(r io.Reader) (ProductPatch, error) {
	var p ProductPatch
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, domain.BadRequest("invalid JSON body")
	}
	if p == nil {
		p = ProductPatch{}
	}
	return p, nil
}

// Has reports whether the key was present in the request body (including as
// an explicit null).
func (p ProductPatch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IsNull reports whether the key was supplied as an explicit JSON null.
func (p ProductPatch) IsNull(key string) bool {
	raw, ok := p[key]
	if !ok {
		return false
	}
	return isNullRaw(raw)
}

func isNullRaw(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

// String returns the field as a string. Explicit null reads as "", the same
// as an empty string, since both mean "clear" to the lifecycle policy.
func (p ProductPatch) String(key string) (string, error) {
	raw, ok := p[key]
	if !ok || isNullRaw(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", domain.BadRequest("%s must be a string", key)
	}
	return s, nil
}

// Bool returns the field as a bool, with ok=false for absent/null.
func (p ProductPatch) Bool(key string) (value bool, ok bool, err error) {
	raw, present := p[key]
	if !present || isNullRaw(raw) {
		return false, false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false, domain.BadRequest("%s must be a boolean", key)
	}
	return b, true, nil
}

// Int returns the field as an integer, accepting either a JSON number or a
// numeric string. ok=false for absent/null/empty-string.
func (p ProductPatch) Int(key string) (value int64, ok bool, err error) {
	raw, present := p[key]
	if !present {
		return 0, false, nil
	}
	return parseFlexInt(key, raw)
}

func parseFlexInt(field string, raw json.RawMessage) (int64, bool, error) {
	if isNullRaw(raw) {
		return 0, false, nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false, domain.BadRequest("%s must be an integer", field)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false, domain.BadRequest("%s must be an integer", field)
		}
		return n, true, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false, domain.BadRequest("%s must be an integer", field)
	}
	return n, true, nil
}

// StringList returns the field as a list of strings, accepting either a JSON
// array or a comma-separated string. Entries are returned verbatim; trimming
// and case folding belong to the normalizers.
func (p ProductPatch) StringList(key string) ([]string, bool, error) {
	raw, present := p[key]
	if !present || isNullRaw(raw) {
		return nil, false, nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false, domain.BadRequest("%s must be an array or a comma-separated string", key)
		}
		return strings.Split(s, ","), true, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, domain.BadRequest("%s must be an array or a comma-separated string", key)
	}
	return list, true, nil
}

// Decode unmarshals the field into v. Absent and null both leave v untouched
// and report ok=false.
func (p ProductPatch) Decode(key string, v interface{}) (bool, error) {
	raw, present := p[key]
	if !present || isNullRaw(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, domain.BadRequest("%s has an invalid shape", key)
	}
	return true, nil
}

// DisallowedKeys returns, sorted, every key of the patch that is not in the
// allow-list.
func (p ProductPatch) DisallowedKeys(allowed []string) []string {
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}
	var bad []string
	for k := range p {
		if !set[k] {
			bad = append(bad, k)
		}
	}
	sort.Strings(bad)
	return bad
}
