package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateArithmetic(t *testing.T) {
	e := New(nil)

	tests := []struct {
		expression string
		expected   float64
	}{
		{"5*8", 40},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/4", 2.5},
		{"-3+5", 2},
		{"--2", 2},
		{"1.5 * 2", 3},
		{" 7 - 2 ", 5},
		{"1\f+1", 2},
		{"1\t+\n1\r", 2},
		{"2*(3+(4-1))", 12},
	}
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			result := e.Evaluate(tt.expression)
			require.Equal(t, StatusSuccess, result.Status, "error: %s", result.Error)
			assert.InDelta(t, tt.expected, result.Result, 1e-9)
			assert.Equal(t, tt.expression, result.Expression)
		})
	}
}

func TestEvaluateDivideByZero(t *testing.T) {
	e := New(nil)

	result := e.Evaluate("10/0")
	require.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Error, "divide")
	assert.NotEmpty(t, result.RetryHint)
}

func TestEvaluateRejectsDisallowedCharacters(t *testing.T) {
	e := New(nil)

	tests := []string{
		"1+1; import os",
		"2**3",      // stars pass the whitelist but the parser rejects the sequence
		"x + 1",     // identifiers
		"len('ab')", // quotes
		"1 & 2",
	}
	for _, expression := range tests {
		t.Run(expression, func(t *testing.T) {
			result := e.Evaluate(expression)
			assert.Equal(t, StatusError, result.Status)
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestEvaluateRejectsEmptyAndMalformed(t *testing.T) {
	e := New(nil)

	for _, expression := range []string{"", "()", "1+", "1..2", "(1+2", ")"} {
		t.Run(expression, func(t *testing.T) {
			result := e.Evaluate(expression)
			assert.Equal(t, StatusError, result.Status)
		})
	}
}

func TestEvaluateResultShape(t *testing.T) {
	e := New(nil)

	success := e.Evaluate("1+1")
	assert.Equal(t, StatusSuccess, success.Status)
	assert.Empty(t, success.Error)
	assert.Empty(t, success.RetryHint)

	failure := e.Evaluate("1/0")
	assert.Equal(t, StatusError, failure.Status)
	assert.Zero(t, failure.Result)
	assert.NotEmpty(t, failure.Error)
	assert.NotEmpty(t, failure.RetryHint)
}
