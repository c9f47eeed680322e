package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	resp := OK()

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type form struct {
		DisplayName     string `validate:"required,max=5"`
		Password        string `validate:"min=6"`
		ConfirmPassword string `validate:"eqfield=Password"`
		UID             string `validate:"numeric"`
		Odd             string `validate:"email"`
	}

	err := validator.New().Struct(form{
		DisplayName:     "too long name",
		Password:        "abc",
		ConfirmPassword: "abd",
		UID:             "abc",
		Odd:             "x",
	})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field DisplayName must be at most 5 characters")
	assert.Contains(t, resp.Error, "field Password must be at least 6 characters")
	assert.Contains(t, resp.Error, "field ConfirmPassword must match Password")
	assert.Contains(t, resp.Error, "field UID can contain only numbers")
	assert.Contains(t, resp.Error, "field Odd is not a valid")
}

func TestValidationMessages_Required(t *testing.T) {
	type form struct {
		Text string `validate:"required"`
	}
	err := validator.New().Struct(form{})
	require.Error(t, err)

	assert.Equal(t, []string{"field Text is a required field"}, ValidationMessages(err.(validator.ValidationErrors)))
}
