package usecase

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"kalabin-backend/internal/domain"

	"github.com/goccy/go-json"
)

// Field normalizers. Each takes a raw value plus the rule the lifecycle
// policy decided for it and returns a canonical value or a typed error. None
// of them touches shared state; uniqueness and catalog lookups happen in the
// orchestrator between normalization steps.

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const shortDescriptionMaxLen = 160

func normalizeSlug(raw string, rule FieldRule) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		if rule == RuleRequired {
			return "", domain.BadRequest("slug is required")
		}
		return "", nil
	}
	if !slugPattern.MatchString(s) {
		return "", domain.BadRequest("slug may only contain lowercase letters, digits and hyphens")
	}
	return s, nil
}

func normalizeTitle(raw string, rule FieldRule) (string, error) {
	t := strings.TrimSpace(raw)
	if t == "" && rule == RuleRequired {
		return "", domain.BadRequest("title is required")
	}
	return t, nil
}

func normalizeShortDescription(raw string, rule FieldRule) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if rule == RuleRequired {
			return "", domain.BadRequest("shortDescription is required")
		}
		return "", nil
	}
	if len([]rune(s)) > shortDescriptionMaxLen {
		return "", domain.BadRequest("shortDescription must be at most %d characters", shortDescriptionMaxLen)
	}
	return s, nil
}

// currencyStrategy is resolved once per request: either the set of active
// catalog codes, or the hardcoded fallback set when the catalog is empty.
type currencyStrategy struct {
	catalogBacked bool
	codes         map[string]bool
}

func catalogBackedCurrencies(codes []string) currencyStrategy {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return currencyStrategy{catalogBacked: true, codes: set}
}

func fallbackCurrencySet() currencyStrategy {
	set := make(map[string]bool, len(domain.FallbackCurrencies))
	for _, c := range domain.FallbackCurrencies {
		set[c] = true
	}
	return currencyStrategy{codes: set}
}

func (s currencyStrategy) valid(code string) bool {
	return s.codes[code]
}

func normalizeCurrency(raw string, rule FieldRule, strategy currencyStrategy) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		if rule == RuleRequired {
			return "", domain.BadRequest("currency is required")
		}
		return "", nil
	}
	if !strategy.valid(c) {
		return "", domain.BadRequest("currency %q is not available", c)
	}
	return c, nil
}

// normalizeNonNegativeInt parses a number-or-numeric-string field. Returns
// nil without error when the field is empty and not required.
func normalizeNonNegativeInt(field string, raw json.RawMessage, required bool) (*int64, error) {
	n, ok, err := parseFlexInt(field, raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		if required {
			return nil, domain.BadRequest("%s is required", field)
		}
		return nil, nil
	}
	if n < 0 {
		return nil, domain.BadRequest("%s must be a non-negative integer", field)
	}
	return &n, nil
}

// normalizeTags lower-cases and trims; empties are dropped. Duplicates are
// kept deliberately (the option catalog dedupes, tags do not).
func normalizeTags(list []string) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeMedia validates the unified gallery. The single-primary rule is
// hard for any non-empty array; the exactly-one-primary and alt requirements
// only apply when the product is going ACTIVE.
func normalizeMedia(items []domain.Media, isActive bool) ([]domain.Media, error) {
	out := make([]domain.Media, 0, len(items))
	primaries := 0
	for _, m := range items {
		m.Type = strings.TrimSpace(m.Type)
		m.Key = strings.TrimSpace(m.Key)
		m.URL = strings.TrimSpace(m.URL)
		m.Poster = strings.TrimSpace(m.Poster)
		m.Alt = strings.TrimSpace(m.Alt)

		if !domain.IsValidMediaType(m.Type) {
			return nil, domain.BadRequest("media type %q is not recognized", m.Type)
		}
		if m.Type == domain.MediaTypeEmbed {
			if m.URL == "" {
				return nil, domain.BadRequest("embed media require a url")
			}
		} else if m.Key == "" && m.URL == "" {
			return nil, domain.BadRequest("media entries require a key or a url")
		}
		if isActive && (m.Type == domain.MediaTypeImage || m.Type == domain.MediaTypeGif) && m.Alt == "" {
			return nil, domain.BadRequest("image media require alt text on active products")
		}
		if m.IsPrimary {
			primaries++
		}
		out = append(out, m)
	}
	if primaries > 1 {
		return nil, domain.BadRequest("only one media item may be primary")
	}
	if isActive && len(out) > 0 && primaries == 0 {
		return nil, domain.BadRequest("an active product needs exactly one primary media item")
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// normalizeImages validates the legacy gallery. Unlike media, the
// exactly-one-primary rule applies whenever the array is non-empty,
// regardless of status.
func normalizeImages(items []domain.Image) ([]domain.Image, error) {
	out := make([]domain.Image, 0, len(items))
	primaries := 0
	for _, img := range items {
		img.URL = strings.TrimSpace(img.URL)
		img.Alt = strings.TrimSpace(img.Alt)
		if img.URL == "" {
			return nil, domain.BadRequest("image entries require a url")
		}
		if img.Alt == "" {
			return nil, domain.BadRequest("image entries require alt text")
		}
		if img.IsPrimary {
			primaries++
		}
		out = append(out, img)
	}
	if len(out) > 0 && primaries != 1 {
		return nil, domain.BadRequest("exactly one image must be primary")
	}
	return out, nil
}

// normalizeVideos silently drops entries without a url.
func normalizeVideos(items []domain.Video) []domain.Video {
	out := make([]domain.Video, 0, len(items))
	for _, v := range items {
		v.URL = strings.TrimSpace(v.URL)
		v.Poster = strings.TrimSpace(v.Poster)
		v.Title = strings.TrimSpace(v.Title)
		if v.URL == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func normalizeOptions(items []domain.Option) []domain.Option {
	out := make([]domain.Option, 0, len(items))
	for _, o := range items {
		o.Name = strings.TrimSpace(o.Name)
		if o.Name == "" {
			continue
		}
		values := make([]string, 0, len(o.Values))
		for _, v := range o.Values {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
		o.Values = values
		out = append(out, o)
	}
	return out
}

// normalizeVariants trims keys; internal consistency (unique variantKey,
// price ordering, stock status) is the invariant checker's job.
func normalizeVariants(items []domain.Variant) []domain.Variant {
	out := make([]domain.Variant, 0, len(items))
	for _, v := range items {
		v.VariantKey = strings.TrimSpace(v.VariantKey)
		out = append(out, v)
	}
	return out
}

func normalizeAttributes(items []domain.Attribute) []domain.Attribute {
	out := make([]domain.Attribute, 0, len(items))
	for _, a := range items {
		a.Key = strings.TrimSpace(a.Key)
		a.Value = strings.TrimSpace(a.Value)
		if a.Key == "" || a.Value == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func normalizeTechSpecs(sections []domain.TechSpecSection) []domain.TechSpecSection {
	out := make([]domain.TechSpecSection, 0, len(sections))
	for _, s := range sections {
		s.Title = strings.TrimSpace(s.Title)
		items := make([]domain.TechSpecItem, 0, len(s.Items))
		for _, it := range s.Items {
			it.K = strings.TrimSpace(it.K)
			it.V = strings.TrimSpace(it.V)
			if it.K == "" || it.V == "" {
				continue
			}
			items = append(items, it)
		}
		if len(items) == 0 {
			continue
		}
		s.Items = items
		out = append(out, s)
	}
	return out
}

// faqInput keeps isActive as a pointer so an omitted flag defaults to true.
type faqInput struct {
	Question   string `json:"question"`
	AnswerHTML string `json:"answerHtml"`
	IsActive   *bool  `json:"isActive"`
	SortOrder  int    `json:"sortOrder"`
}

func normalizeFAQs(items []faqInput) []domain.FAQ {
	out := make([]domain.FAQ, 0, len(items))
	for _, f := range items {
		q := strings.TrimSpace(f.Question)
		a := strings.TrimSpace(f.AnswerHTML)
		if q == "" || a == "" {
			continue
		}
		active := true
		if f.IsActive != nil {
			active = *f.IsActive
		}
		out = append(out, domain.FAQ{
			Question:   q,
			AnswerHTML: a,
			IsActive:   active,
			SortOrder:  f.SortOrder,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func normalizeSEO(s *domain.SEO) *domain.SEO {
	if s == nil {
		return nil
	}
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.CanonicalURL = strings.TrimSpace(s.CanonicalURL)
	if s.Title == "" && s.Description == "" && s.CanonicalURL == "" {
		return nil
	}
	return s
}

// shippingInput carries the raw integer fields so number-or-string parsing
// applies to weight and dimensions like every other integer field.
type shippingInput struct {
	Weight     json.RawMessage `json:"weight"`
	Dimensions *struct {
		Length json.RawMessage `json:"length"`
		Width  json.RawMessage `json:"width"`
		Height json.RawMessage `json:"height"`
	} `json:"dimensions"`
}

func normalizeShipping(in shippingInput) (*domain.Shipping, error) {
	weight, err := normalizeNonNegativeInt("shipping.weight", in.Weight, false)
	if err != nil {
		return nil, err
	}
	var dims *domain.Dimensions
	if in.Dimensions != nil {
		length, err := normalizeNonNegativeInt("shipping.dimensions.length", in.Dimensions.Length, false)
		if err != nil {
			return nil, err
		}
		width, err := normalizeNonNegativeInt("shipping.dimensions.width", in.Dimensions.Width, false)
		if err != nil {
			return nil, err
		}
		height, err := normalizeNonNegativeInt("shipping.dimensions.height", in.Dimensions.Height, false)
		if err != nil {
			return nil, err
		}
		if length != nil || width != nil || height != nil {
			dims = &domain.Dimensions{Length: length, Width: width, Height: height}
		}
	}
	if weight == nil && dims == nil {
		return nil, nil
	}
	return &domain.Shipping{Weight: weight, Dimensions: dims}, nil
}

// normalizePolicyBlock drops incomplete blocks instead of rejecting the
// request: TEMPLATE needs a templateId, CUSTOM needs a body.
func normalizePolicyBlock(b *domain.PolicyBlock) *domain.PolicyBlock {
	if b == nil {
		return nil
	}
	b.Mode = strings.ToUpper(strings.TrimSpace(b.Mode))
	b.TemplateID = strings.TrimSpace(b.TemplateID)
	b.Body = strings.TrimSpace(b.Body)
	switch b.Mode {
	case domain.PolicyModeTemplate:
		if b.TemplateID == "" {
			return nil
		}
	case domain.PolicyModeCustom:
		if b.Body == "" {
			return nil
		}
	default:
		return nil
	}
	return b
}

func normalizeRelated(r *domain.Related) *domain.Related {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.ManualIDs))
	for _, id := range r.ManualIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	r.ManualIDs = ids
	r.AdminOnlySimilarTags = normalizeTags(r.AdminOnlySimilarTags)
	return r
}

func normalizePublishAt(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.BadRequest("publishAt must be an RFC3339 timestamp")
	}
	return &t, nil
}
