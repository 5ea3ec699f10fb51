// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/sec"
)

/*
TestAuthorizeOwner verifies the strict-equality ownership policy.
*/
func TestAuthorizeOwner(t *testing.T) {
	tests := []struct {
		name      string
		acting    string
		owner     string
		permitted bool
	}{
		{"owner_matches", "user-a", "user-a", true},
		{"different_user", "user-b", "user-a", false},
		{"empty_acting_user", "", "", false},
		{"empty_owner", "user-a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.AuthorizeOwner(tt.acting, tt.owner, "novel")

			if tt.permitted {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "FORBIDDEN", ae.Code)
		})
	}
}
