package usecase

// FieldRule is the outcome of the lifecycle-aware required-field policy for a
// single governed field.
type FieldRule int

const (
	// RuleOptional: validate the value if the caller sent one, otherwise leave
	// the field alone.
	RuleOptional FieldRule = iota
	// RuleRequired: the effective record must end up with a non-empty value.
	RuleRequired
	// RuleClearable: the caller explicitly sent ""/null on an update while the
	// product stays non-ACTIVE; the field is unset rather than validated.
	RuleClearable
)

// Governed field names. Only these participate in the conditional
// required-ness table; everything else is always optional.
const (
	fieldTitle            = "title"
	fieldSlug             = "slug"
	fieldShortDescription = "shortDescription"
	fieldCategoryID       = "categoryId"
	fieldPrice            = "price"
	fieldCurrency         = "currency"
)

var activeRequiredFields = map[string]bool{
	fieldTitle:            true,
	fieldSlug:             true,
	fieldShortDescription: true,
	fieldCategoryID:       true,
	fieldPrice:            true,
	fieldCurrency:         true,
}

// Fields the caller may explicitly clear on update while not transitioning to
// ACTIVE.
var clearableFields = map[string]bool{
	fieldSlug:       true,
	fieldCategoryID: true,
	fieldPrice:      true,
	fieldCurrency:   true,
}

// requirementFor is the policy decision table. explicitlyEmpty means the key
// was present in the request with ""/null. The at-least-one-gallery-entry
// rule for ACTIVE products is checked after normalization, not here.
func requirementFor(field string, explicitlyEmpty bool, isActive bool, isUpdate bool) FieldRule {
	if isActive {
		if activeRequiredFields[field] {
			return RuleRequired
		}
		return RuleOptional
	}
	if isUpdate && explicitlyEmpty && clearableFields[field] {
		return RuleClearable
	}
	return RuleOptional
}
