package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/shared/apperr"
)

type row struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type draft struct {
	Title string  `json:"title" validate:"required,max=10"`
	Email string  `json:"email" validate:"omitempty,email"`
	Rows  []row   `json:"specifications" validate:"min=1,dive"`
	Price float64 `json:"price" validate:"gt=0"`
}

func TestCheck(t *testing.T) {
	err := validation.Check(draft{Email: "nope", Rows: []row{{Key: "k"}}}, "Check the form.")
	require.Error(t, err)

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Equal(t, "Check the form.", ae.PublicMsg)
	assert.Equal(t, "This field is required.", ae.Fields["title"])
	assert.Equal(t, "Enter a valid email address.", ae.Fields["email"])
	assert.Equal(t, "This field is required.", ae.Fields["specifications[0].value"])
	assert.Equal(t, "Must be greater than 0.", ae.Fields["price"])

	assert.NoError(t, validation.Check(draft{Title: "ok", Rows: []row{{"a", "b"}}, Price: 1}, ""))
}

func TestFromErrorNonValidation(t *testing.T) {
	fe := validation.FromError(errors.New("unexpected EOF"))
	assert.Equal(t, validation.FieldErrors{"_": "Invalid request data."}, fe)
}

func TestBindError(t *testing.T) {
	err := validation.BindError(errors.New("unexpected EOF"), "Bad request.")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Equal(t, "Invalid request data.", ae.Fields["_"])
}
