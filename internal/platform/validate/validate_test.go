// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/validate"
)

func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"non-empty passes", "hello", false},
		{"empty fails", "", true},
		{"whitespace-only fails", "   \t ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Required("field", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Lengths(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		MinLen("username", "ab", 3).
		MaxLen("bio", strings.Repeat("x", 600), 500).
		Err()
	require.Error(t, err)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Len(t, appErr.Details, 2)
}

func TestValidator_MaxLen_CountsRunes(t *testing.T) {
	// 5 runes but 15 bytes; must pass a 5-rune limit.
	v := &validate.Validator{}
	assert.NoError(t, v.MaxLen("title", "日本語の本", 5).Err())
}

func TestValidator_Email(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"reader@novira.app", false},
		{"not-an-email", true},
		{"@missing-local.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Email("email", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Username(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"minhngvn", false},
		{"reader01", false},
		{"Alice", true},
		{"ALICE", true},
		{"al_ice", true},
		{"al.ice", true},
		{"bad name", true},
		{"bad@name", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Username("username", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"the-dragon-keep", false},
		{"vol2", false},
		{"-leading", true},
		{"trailing-", true},
		{"UPPER", true},
		{"double--hyphen", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Slug("slug", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_UUID(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.UUID("id", "0198c5e6-7f11-7c32-9a3d-1b2c3d4e5f60").Err())

	v = &validate.Validator{}
	assert.Error(t, v.UUID("id", "not-a-uuid").Err())
}

func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.OneOf("status", "ongoing", "ongoing", "completed", "hiatus").Err())

	v = &validate.Validator{}
	assert.Error(t, v.OneOf("status", "cancelled", "ongoing", "completed", "hiatus").Err())
}

func TestValidator_ChainCollectsAllErrors(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("username", "").
		Email("email", "bogus").
		Range("limit", 500, 1, 100).
		Err()
	require.Error(t, err)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Details, 3)
	assert.True(t, v.HasErrors())
}

func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("avatar", "File is required")
	require.NotNil(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "avatar", err.Details[0].Field)
}
