package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
)

type sample struct {
	Name   string   `json:"name" validate:"required"`
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
	Budget float64  `json:"budget" validate:"required,gt=0"`
	Rating *float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

func TestValidateOK(t *testing.T) {
	r := 3.0
	err := New().Validate(sample{Name: "x", Skills: []string{"go"}, Budget: 10, Rating: &r})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	r := 7.0
	err := New().Validate(sample{Skills: []string{}, Rating: &r})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "skills")
	assert.Contains(t, appErr.Fields, "budget")
	assert.Equal(t, []string{"must be less than or equal to 5"}, appErr.Fields["rating"])
}
