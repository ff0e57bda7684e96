package check

import (
	"testing"

	"gotest.tools/assert"
)

type flagCase struct {
	A bool
}

func (t *flagCase) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

type valueCase struct {
	A bool
}

func (t valueCase) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

type nested struct {
	Inner  valueCase
	Items  []valueCase
	hidden valueCase
}

func TestMethodSets(t *testing.T) {
	case1 := flagCase{A: false}
	case2 := valueCase{A: false}

	err := Validate(case1)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(&case1)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(case2)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(&case2)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")

	assert.NilError(t, Validate(valueCase{A: true}))
	assert.NilError(t, Validate(nil))
}

func TestNestedPaths(t *testing.T) {
	err := Validate(nested{
		Inner:  valueCase{A: false},
		Items:  []valueCase{{A: true}, {A: false}},
		hidden: valueCase{A: false},
	})
	assert.ErrorContains(t, err, "2 errors found")
	assert.ErrorContains(t, err, "error found at root.Inner")
	assert.ErrorContains(t, err, "error found at root.Items[1]")
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"not empty", NotEmpty("x"), false},
		{"empty", NotEmpty("  "), true},
		{"len in range", LenBetween("abc", 1, 3), false},
		{"len counts runes", LenBetween("été", 1, 3), false},
		{"len too long", LenBetween("abcd", 1, 3), true},
		{"greater", GreaterThan(2, 0), false},
		{"not greater", GreaterThan(0, 0), true},
		{"in", In("info", []string{"debug", "info"}), false},
		{"not in", In("loud", []string{"debug", "info"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err != nil, tt.wantErr, "error: %v", tt.err)
		})
	}

	assert.Error(t, NotEmpty("", "name %s", "missing"), "name missing: expected a non-empty value")
}
