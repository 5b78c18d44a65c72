package evaluator

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x + y^2", "(x + (y ^ 2))"},
		{"x - y - z", "((x - y) - z)"},
		{"2*x/y", "((2 * x) / y)"},
		{"-x^2", "-(x ^ 2)"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"x^-1", "(x ^ -1)"},
		{"(x + y) * 3i", "((x + y) * 3i)"},
		{"if(x > 0, sin(x), 1)", "if((x > 0), sin(x), 1)"},
		{"x ** 5 - 4*x*y", "((x ^ 5) - ((4 * x) * y))"},
	}
	for _, tt := range tests {
		e, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if got := e.String(); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x +", "unexpected token"},
		{"(x", "expected )"},
		{"x $ y", "unexpected character"},
		{"x y", "after expression"},
		{"f(x,", "unexpected token"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q) error = %v, want *ParseError", tt.input, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Parse(%q) error = %q, want it to mention %q", tt.input, err, tt.want)
		}
	}
}
