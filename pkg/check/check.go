package check

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// True returns an error with the provided message if the condition is false.
func True(condition bool, msgAndArgs ...interface{}) error {
	return check(condition, msgAndArgs, "expected true, got false")
}

// NotEmpty returns an error if the string is empty after trimming whitespace.
func NotEmpty(actual string, msgAndArgs ...interface{}) error {
	return check(strings.TrimSpace(actual) != "", msgAndArgs, "expected a non-empty value")
}

// LenBetween checks that the number of runes in actual is within [min, max].
func LenBetween(actual string, min, max int, msgAndArgs ...interface{}) error {
	n := utf8.RuneCountInString(actual)
	return check(n >= min && n <= max, msgAndArgs,
		"length %d is outside of [%d, %d]", n, min, max)
}

// GreaterThan checks that actual is strictly greater than bound.
func GreaterThan(actual, bound int, msgAndArgs ...interface{}) error {
	return check(actual > bound, msgAndArgs, "%d is not greater than %d", actual, bound)
}

// In checks whether the actual value is one of the allowed values.
func In(actual string, allowed []string, msgAndArgs ...interface{}) error {
	for _, a := range allowed {
		if a == actual {
			return nil
		}
	}
	return check(false, msgAndArgs, "%q not in %v", actual, allowed)
}

func check(condition bool, msgAndArgs []interface{}, format string, args ...interface{}) error {
	if condition {
		return nil
	}
	detail := fmt.Sprintf(format, args...)
	if msg := message(msgAndArgs...); msg != "" {
		return errors.Errorf("%s: %s", msg, detail)
	}
	return errors.New(detail)
}

func message(msgAndArgs ...interface{}) string {
	switch {
	case len(msgAndArgs) == 1:
		if msg, ok := msgAndArgs[0].(string); ok {
			return msg
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	case len(msgAndArgs) > 1:
		format, ok := msgAndArgs[0].(string)
		if !ok {
			return fmt.Sprint(msgAndArgs...)
		}
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	default:
		return ""
	}
}
