package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	require.NoError(t, v.Validate(&resetPasswordRequest{Token: "t", Password: "secret1"}))

	err := v.Validate(&resetPasswordRequest{Password: "secret1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "token", verr.Field)
	assert.Equal(t, "Token is required", verr.Message)

	err = v.Validate(&struct {
		Age int `json:"age" validate:"min=18"`
	}{Age: 3})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "age is invalid", verr.Message)
}
