package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

var validate = validator.New()

// Struct runs `validate` tags on v and returns the first failure as a readable message.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("Missing required field: %s", jsonName(fe))
	case "oneof":
		return fmt.Errorf("Invalid %s: must be one of %s", jsonName(fe), fe.Param())
	case "min", "max", "gte", "lte":
		return fmt.Errorf("Invalid %s: must satisfy %s=%s", jsonName(fe), fe.Tag(), fe.Param())
	case "email":
		return fmt.Errorf("Invalid email format")
	}
	return fmt.Errorf("Invalid %s", jsonName(fe))
}

func jsonName(fe validator.FieldError) string {
	n := fe.Field()
	if n == "" {
		return n
	}
	return strings.ToLower(n[:1]) + n[1:]
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// FirstMissing returns the first of fields absent, null or empty-string in body.
func FirstMissing(body map[string]interface{}, fields ...string) string {
	for _, f := range fields {
		v, ok := body[f]
		if !ok || v == nil {
			return f
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return f
		}
	}
	return ""
}

// Number reads a numeric JSON value. Plain numeric strings ("2000", "2.5")
// are accepted; anything else, including formatted currency, is rejected.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String reads an optional string value; ok is false when v is present but not a string.
func String(v interface{}) (string, bool) {
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}
