package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// Family tags one resource family (products, orders, brands, ...). All cache
// entries for a family invalidate together.
type Family string

// Params is the flat parameter bag a list query is keyed by. Values are
// primitives (string, number, bool). A nil value means the parameter is
// absent, which is distinct from an empty string.
type Params map[string]any

// QueryKey identifies one cached list query: a resource family plus its
// normalized parameter bag. Two keys are equal iff their canonical strings
// are equal; parameter order never matters.
type QueryKey struct {
	family Family
	key    string
}

// NewQueryKey builds the canonical key for a family and parameter bag.
// Parameters are emitted in sorted name order so the same bag always yields
// the same key regardless of how it was assembled. Names and values are
// percent-escaped: search text is arbitrary user input, and an unescaped
// separator or "=" inside a value would make two distinct bags collide on one
// key.
func NewQueryKey(family Family, params Params) QueryKey {
	fam := normalizeFamily(family)

	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, string(fam))
	for _, name := range names {
		parts = append(parts, url.QueryEscape(name)+"="+url.QueryEscape(serializeValue(params[name])))
	}

	return QueryKey{family: fam, key: strings.Join(parts, KeySeparator)}
}

// Family returns the normalized family tag.
func (k QueryKey) Family() Family { return k.family }

// String returns the canonical key string.
func (k QueryKey) String() string { return k.key }

// IsZero reports whether the key was never built.
func (k QueryKey) IsZero() bool { return k.key == "" }

// InFamily reports whether a canonical key string belongs to the family.
func InFamily(key string, family Family) bool {
	fam := string(normalizeFamily(family))
	return key == fam || strings.HasPrefix(key, fam+KeySeparator)
}

// serializeValue renders one parameter value. Only flat primitives appear in
// parameter bags; anything else falls back to fmt for stability.
func serializeValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normalizeFamily converts the family tag to snake_case ASCII. Raw tags can
// arrive from reflected type names or UI labels; punctuation left in the
// namespace would break family matching.
func normalizeFamily(f Family) Family {
	return Family(toSnake(string(f)))
}

func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				if !unicode.IsDigit(prev) && prev != '_' && !lastUnderscore {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r)
			lastUnderscore = false

		case r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		case r == '-' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
