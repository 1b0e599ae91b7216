// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pokebinder/internal/platform/apperr"
	"github.com/taibuivan/pokebinder/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Base Set", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_MaxLen counts characters, not bytes.
*/
func TestValidator_MaxLen(t *testing.T) {
	v := &validate.Validator{}
	v.MaxLen("name", "Pokémon", 7)
	assert.False(t, v.HasErrors())

	v.MaxLen("name", "Pokémon!", 7)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_OneOf checks membership in the allowed set.
*/
func TestValidator_OneOf(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"first", "3x3", true},
		{"last", "5x5", true},
		{"unknown", "6x6", false},
		{"case_sensitive", "3X3", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.OneOf("size", tt.value, "3x3", "4x4", "5x5")
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Numbers covers the integer rules.
*/
func TestValidator_Numbers(t *testing.T) {
	v := &validate.Validator{}
	v.Min("page_number", 1, 1).Range("position", 8, 0, 8)
	assert.False(t, v.HasErrors())

	v.Min("page_number", 0, 1).Range("position", 9, 0, 8)
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "page_number", ae.Details[0].Field)
	assert.Equal(t, "position", ae.Details[1].Field)
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").                  // Fails
		MaxLen("name", "Charizard", 3).        // Fails
		Custom("size", true, "Cannot change"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("card_name", "Card name is required")
	assert.Equal(t, apperr.CodeValidation, err.Code)
	assert.Equal(t, "card_name", err.Details[0].Field)
	assert.ErrorIs(t, err, validate.ErrInvalidJSON)
}
