package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{
			name:     "valid password",
			password: "Abcdef1!",
		},
		{
			name:     "too short",
			password: "Ab1!",
			wantErr:  "Password must be at least 8 characters long.",
		},
		{
			name:     "missing lowercase",
			password: "ABCDEF1!",
			wantErr:  "Password must contain at least one lowercase letter.",
		},
		{
			name:     "missing uppercase",
			password: "abcdef1!",
			wantErr:  "Password must contain at least one uppercase letter.",
		},
		{
			name:     "missing digit",
			password: "Abcdefg!",
			wantErr:  "Password must contain at least one number.",
		},
		{
			name:     "missing special character",
			password: "Abcdefg1",
			wantErr:  "Password must contain at least one special character.",
		},
		{
			// Missing both uppercase and special; the fixed check order
			// means the uppercase rule names the error.
			name:     "lowercase and digits only",
			password: "abcdef12",
			wantErr:  "Password must contain at least one uppercase letter.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.IsType(t, ValidationError(""), err)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Abcdef1!", hash)

	assert.True(t, CheckPassword("Abcdef1!", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
