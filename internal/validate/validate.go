// Package validate checks single field values against declarative constraints.
//
// Checks run in a fixed order (required, length, pattern, then kind-specific
// bounds) and stop at the first failure. ValidateForm applies a Schema to a
// whole form and collects every field's failure.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Kind selects how a raw value is parsed before bounds are checked.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
	KindArray  Kind = "array"
)

// DateLayout is the canonical date format for due dates.
const DateLayout = "2006-01-02"

// Constraints describe what a valid value looks like. Zero values disable a check.
type Constraints struct {
	Field     string // form field the value came from
	Label     string // human name used in messages
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Min       *float64
	Max       *float64
	MinDate   time.Time
	MaxDate   time.Time
	MaxItems  int
	Separator string // array item separator, defaults to ","
}

// Error is a field-level validation failure.
type Error struct {
	Field   string
	Label   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Bound returns a pointer to v, for Constraints.Min and Constraints.Max.
func Bound(v float64) *float64 {
	return &v
}

// Validate checks value against c and returns it normalized for kind:
// string for text, float64 for number, time.Time for date, []string for array.
// Empty optional values return the zero value of the kind.
func Validate(value any, kind Kind, c Constraints) (any, error) {
	switch kind {
	case KindNumber:
		return Number(toString(value), c)
	case KindDate:
		return Date(toString(value), c)
	case KindArray:
		switch v := value.(type) {
		case []string:
			return List(v, c)
		default:
			return List(splitItems(toString(value), c.Separator), c)
		}
	default:
		return Text(toString(value), c)
	}
}

// Text validates a trimmed string.
func Text(input string, c Constraints) (string, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		if c.Required {
			return "", c.fail("%s is required", c.label(string(KindText)))
		}
		return "", nil
	}
	if err := c.checkString(value, string(KindText)); err != nil {
		return "", err
	}
	return value, nil
}

// Number validates a decimal number and its Min/Max bounds.
func Number(input string, c Constraints) (float64, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		if c.Required {
			return 0, c.fail("%s is required", c.label(string(KindNumber)))
		}
		return 0, nil
	}
	if err := c.checkString(value, string(KindNumber)); err != nil {
		return 0, err
	}
	num, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, c.fail("%s must be a number", c.label("Value"))
	}
	if c.Min != nil && num < *c.Min {
		return 0, c.fail("%s must be at least %s", c.label("Value"), formatNumber(*c.Min))
	}
	if c.Max != nil && num > *c.Max {
		return 0, c.fail("%s must not exceed %s", c.label("Value"), formatNumber(*c.Max))
	}
	return num, nil
}

// Date validates a YYYY-MM-DD or RFC 3339 date and its MinDate/MaxDate bounds.
func Date(input string, c Constraints) (time.Time, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		if c.Required {
			return time.Time{}, c.fail("%s is required", c.label(string(KindDate)))
		}
		return time.Time{}, nil
	}
	if err := c.checkString(value, string(KindDate)); err != nil {
		return time.Time{}, err
	}
	date, ok := parseDate(value)
	if !ok {
		return time.Time{}, c.fail("%s must be a valid date (YYYY-MM-DD)", c.label("Date"))
	}
	if !c.MinDate.IsZero() && date.Before(c.MinDate) {
		return time.Time{}, c.fail("%s cannot be before %s", c.label("Date"), c.MinDate.Format(DateLayout))
	}
	if !c.MaxDate.IsZero() && date.After(c.MaxDate) {
		return time.Time{}, c.fail("%s cannot be after %s", c.label("Date"), c.MaxDate.Format(DateLayout))
	}
	return date, nil
}

// List validates a list of items. Length and pattern constraints apply to
// each item; blank items are dropped before MaxItems is checked.
func List(items []string, c Constraints) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		if c.Required {
			return nil, c.fail("%s is required", c.label(string(KindArray)))
		}
		return out, nil
	}
	for _, item := range out {
		if err := c.checkString(item, string(KindArray)); err != nil {
			return nil, err
		}
	}
	if c.MaxItems > 0 && len(out) > c.MaxItems {
		return nil, c.fail("%s allows at most %d items", c.label("List"), c.MaxItems)
	}
	return out, nil
}

// Rule is one field's entry in a Schema.
type Rule struct {
	Kind Kind
	Constraints
}

// Schema maps form field names to their rules.
type Schema map[string]Rule

// ValidateForm validates every field of data that the schema declares and
// returns all failures, ordered by field name. Fields without a label are
// named after the capitalized field.
func ValidateForm(data map[string]any, schema Schema) []error {
	fields := make([]string, 0, len(data))
	for field := range data {
		if _, ok := schema[field]; ok {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	var errs []error
	for _, field := range fields {
		rule := schema[field]
		c := rule.Constraints
		if c.Field == "" {
			c.Field = field
		}
		if c.Label == "" {
			c.Label = capitalize(field)
		}
		kind := rule.Kind
		if kind == "" {
			kind = KindText
		}
		if _, err := Validate(data[field], kind, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c Constraints) checkString(value, fallback string) error {
	n := utf8.RuneCountInString(value)
	if c.MinLength > 0 && n < c.MinLength {
		return c.fail("%s must be at least %d characters", c.label(fallback), c.MinLength)
	}
	if c.MaxLength > 0 && n > c.MaxLength {
		return c.fail("%s must not exceed %d characters", c.label(fallback), c.MaxLength)
	}
	if c.Pattern != nil && !c.Pattern.MatchString(value) {
		return c.fail("%s format is invalid", c.label(fallback))
	}
	return nil
}

func (c Constraints) label(fallback string) string {
	if c.Label != "" {
		return c.Label
	}
	return fallback
}

func (c Constraints) fail(format string, args ...any) *Error {
	return &Error{Field: c.Field, Label: c.Label, Message: fmt.Sprintf(format, args...)}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{DateLayout, time.RFC3339Nano, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

func splitItems(s, sep string) []string {
	if sep == "" {
		sep = ","
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, sep)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
