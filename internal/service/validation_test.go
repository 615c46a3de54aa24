package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	msgSkuRequired  = "SKU is required"
	msgSkuLength    = "SKU must be between 5 and 12 characters"
	msgSkuFormat    = "SKU must contain only uppercase letters, numbers and hyphens"
	msgNameRequired = "Name is required"
	msgNameLength   = "Name must be between 3 and 40 characters"
	msgNameFormat   = "Name must contain only letters, numbers, spaces and hyphens"
)

func TestGate_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		req      *ProductCreateDto
		expected []string
	}{
		{
			name:     "valid request",
			req:      &ProductCreateDto{SKU: "ABC-123", Name: "Blue Widget"},
			expected: []string{},
		},
		{
			name:     "boundary lengths are valid",
			req:      &ProductCreateDto{SKU: "ABCDE", Name: "Abc"},
			expected: []string{},
		},
		{
			name:     "upper boundary lengths are valid",
			req:      &ProductCreateDto{SKU: "123456789012", Name: strings.Repeat("a", 40)},
			expected: []string{},
		},
		{
			name:     "blank sku reports required, length and format",
			req:      &ProductCreateDto{SKU: "", Name: "Widget"},
			expected: []string{msgSkuRequired, msgSkuLength, msgSkuFormat},
		},
		{
			name:     "nil request reports every required rule",
			req:      nil,
			expected: []string{msgSkuRequired, msgSkuLength, msgSkuFormat, msgNameRequired, msgNameLength, msgNameFormat},
		},
		{
			name:     "sku too short",
			req:      &ProductCreateDto{SKU: "ABCD", Name: "Widget"},
			expected: []string{msgSkuLength},
		},
		{
			name:     "sku too long",
			req:      &ProductCreateDto{SKU: "1234567890123", Name: "Widget"},
			expected: []string{msgSkuLength},
		},
		{
			name:     "lowercase sku",
			req:      &ProductCreateDto{SKU: "abc-123", Name: "Widget"},
			expected: []string{msgSkuFormat},
		},
		{
			name:     "name too short",
			req:      &ProductCreateDto{SKU: "ABC-123", Name: "ab"},
			expected: []string{msgNameLength},
		},
		{
			name:     "name too long",
			req:      &ProductCreateDto{SKU: "ABC-123", Name: strings.Repeat("a", 41)},
			expected: []string{msgNameLength},
		},
		{
			name:     "name with symbols",
			req:      &ProductCreateDto{SKU: "ABC-123", Name: "Widget_#1"},
			expected: []string{msgNameFormat},
		},
		{
			name:     "whitespace name is blank",
			req:      &ProductCreateDto{SKU: "ABC-123", Name: "   "},
			expected: []string{msgNameRequired},
		},
		{
			name:     "violations on both fields",
			req:      &ProductCreateDto{SKU: "a!", Name: "x"},
			expected: []string{msgSkuLength, msgSkuFormat, msgNameLength},
		},
	}
	gate := NewGate()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, gate.Validate(tc.req))
		})
	}
}
