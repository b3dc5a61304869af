// Package validate provides struct-tag validation.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty (nil pointer, blank string, 0)
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	phone               8 to 15 digits once every non-digit is removed
//	date                calendar date in YYYY-MM-DD form
//	numeric             any number
//	integer             whole number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N                number > N
//	gte=N               number >= N
//	lte=N               number <= N
//	in=a,b,c            value must be one of the listed items
//	regex=pattern       value must match the regex (avoid commas in pattern)
//	dive                validate every element of a slice of structs
//
// Pointers are dereferenced; decimal.Decimal values count as numbers.
//
//	type LineInput struct {
//	    Quantity  int             `json:"quantity"   validate:"required,gt=0"`
//	    UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
//	}
//	type OrderInput struct {
//	    Date  string      `json:"date"  validate:"required,date"`
//	    Lines []LineInput `json:"lines" validate:"required,dive"`
//	}
//
// Errors for dived elements are keyed "lines.0.quantity".
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only layout accepted by the date rule.
const DateLayout = "2006-01-02"

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	validateStruct(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func validateStruct(rv reflect.Value, prefix string, errs map[string]string) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := prefix + jsonFieldName(field)
		rules := splitRules(tag)
		value := rv.Field(i)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		failed := false
		for _, rule := range rules {
			if rule == "nullable" || rule == "dive" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				failed = true
				break // first failing rule per field
			}
		}

		if !failed && hasRule(rules, "dive") {
			elems := deref(value)
			if elems.Kind() == reflect.Slice || elems.Kind() == reflect.Array {
				for j := 0; j < elems.Len(); j++ {
					validateStruct(elems.Index(j), fmt.Sprintf("%s.%d.", name, j), errs)
				}
			}
		}
	}
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	if rule == "required" {
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	}

	v = deref(v)
	if !v.IsValid() {
		return ""
	}

	raw := rawString(v)
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	// ── Format ────────────────────────────────────────────────────────
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "phone":
		digits := nonDigitRE.ReplaceAllString(raw, "")
		if len(digits) < 8 || len(digits) > 15 {
			return fmt.Sprintf("The %s must contain between 8 and 15 digits.", field)
		}
	case "date":
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return fmt.Sprintf("The %s must be a date in YYYY-MM-DD format.", field)
		}
	case "numeric":
		if _, err := decimal.NewFromString(raw); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}

	// ── Size / range ──────────────────────────────────────────────────
	case "min":
		n := mustParseDecimal(param)
		if isNumber(v) {
			if toDecimal(v).LessThan(n) {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if decimal.NewFromInt(int64(length(v, raw))).LessThan(n) {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := mustParseDecimal(param)
		if isNumber(v) {
			if toDecimal(v).GreaterThan(n) {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if decimal.NewFromInt(int64(length(v, raw))).GreaterThan(n) {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if !toDecimal(v).GreaterThan(mustParseDecimal(param)) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if toDecimal(v).LessThan(mustParseDecimal(param)) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if toDecimal(v).GreaterThan(mustParseDecimal(param)) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	// ── Inclusion ─────────────────────────────────────────────────────
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	// ── Pattern ───────────────────────────────────────────────────────
	case "regex":
		re, err := regexp.Compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var (
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nonDigitRE = regexp.MustCompile(`\D`)

	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func rawString(v reflect.Value) string {
	if v.Type() == decimalType {
		return v.Interface().(decimal.Decimal).String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func length(v reflect.Value, raw string) int {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len()
	}
	return len([]rune(raw))
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil() || isEmpty(v.Elem())
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.Type() == decimalType {
			return v.Interface().(decimal.Decimal).IsZero()
		}
	}
	return false
}

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return v.Type() == decimalType
}

func toDecimal(v reflect.Value) decimal.Decimal {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromInt(int64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(v.Float())
	}
	if v.Type() == decimalType {
		return v.Interface().(decimal.Decimal)
	}
	d, _ := decimal.NewFromString(rawString(v))
	return d
}

func mustParseDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(strings.TrimSpace(s))
	return d
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits the validate tag by comma while keeping the in= list
// intact: "required,in=a,b,c,max=3" → ["required","in=a,b,c","max=3"].
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inParam := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inParam && current.String() == "in=" {
				inParam = true
			}
			continue
		}

		if inParam && !looksLikeNewRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		rules = append(rules, current.String())
		current.Reset()
		inParam = false
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

func looksLikeNewRule(s string) bool {
	known := []string{
		"required", "nullable", "email", "phone", "date", "numeric", "integer",
		"dive", "regex=", "min=", "max=", "gt=", "gte=", "lte=", "in=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
