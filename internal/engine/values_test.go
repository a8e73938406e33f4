package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		raw    interface{}
		want   float64
		wantOK bool
	}{
		{name: "nil", raw: nil, wantOK: false},
		{name: "float", raw: 7.5, want: 7.5, wantOK: true},
		{name: "int", raw: 10, want: 10.0, wantOK: true},
		{name: "int64", raw: int64(42), want: 42, wantOK: true},
		{name: "numeric string", raw: "7.5", want: 7.5, wantOK: true},
		{name: "padded numeric string", raw: "  7.5 ", want: 7.5, wantOK: true},
		{name: "integer string", raw: "300", want: 300, wantOK: true},
		{name: "empty string", raw: "", wantOK: false},
		{name: "whitespace string", raw: "   ", wantOK: false},
		{name: "non-numeric string", raw: "high", wantOK: false},
		{name: "bool true", raw: true, want: 1, wantOK: true},
		{name: "bool false", raw: false, want: 0, wantOK: true},
		{name: "unsupported type", raw: []string{"7.5"}, wantOK: false},
		{name: "map value", raw: map[string]interface{}{"v": 1}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseNumber_ZeroIsNotUnknown(t *testing.T) {
	got, ok := ParseNumber("0")
	assert.True(t, ok, "a stored zero parses; only empty/missing is unknown")
	assert.Equal(t, 0.0, got)
}

func TestTruthyFlag(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want bool
	}{
		{name: "int one", raw: 1, want: true},
		{name: "float one", raw: 1.0, want: true},
		{name: "bool true", raw: true, want: true},
		{name: "string 1", raw: "1", want: true},
		{name: "yes lowercase", raw: "yes", want: true},
		{name: "Yes mixed case", raw: "Yes", want: true},
		{name: "YES uppercase", raw: "YES", want: true},
		{name: "single y", raw: "y", want: true},
		{name: "true string", raw: "true", want: true},
		{name: "True string", raw: "True", want: true},

		{name: "nil", raw: nil, want: false},
		{name: "zero", raw: 0, want: false},
		{name: "two", raw: 2, want: false},
		{name: "no", raw: "no", want: false},
		{name: "bool false", raw: false, want: false},
		{name: "empty string", raw: "", want: false},
		{name: "arbitrary string", raw: "maybe", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruthyFlag(tt.raw))
		})
	}
}
