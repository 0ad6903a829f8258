package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemosyne/pkg/validate"
)

type sample struct {
	Name  string   `validate:"required"`
	Count int      `validate:"min=1,max=10"`
	Mode  string   `validate:"oneof=fast slow"`
	Tags  []string `validate:"dive,required"`
}

func TestStruct_PassesWhenAllFieldsValid(t *testing.T) {
	// Arrange
	s := sample{Name: "x", Count: 5, Mode: "fast", Tags: []string{"a"}}

	// Act
	err := validate.Struct(s)

	// Assert
	assert.NoError(t, err)
}

func TestStruct_ReportsMissingRequiredField(t *testing.T) {
	// Arrange
	s := sample{Count: 5, Mode: "fast"}

	// Act
	err := validate.Struct(s)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestStruct_ReportsOutOfRangeMin(t *testing.T) {
	// Arrange
	s := sample{Name: "x", Count: 0, Mode: "fast"}

	// Act
	err := validate.Struct(s)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be at least 1")
}

func TestStruct_ReportsInvalidOneOf(t *testing.T) {
	// Arrange
	s := sample{Name: "x", Count: 5, Mode: "medium"}

	// Act
	err := validate.Struct(s)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode must be one of: fast slow")
}

func TestStruct_CombinesMultipleFieldErrors(t *testing.T) {
	// Arrange
	s := sample{}

	// Act
	err := validate.Struct(s)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), ";")
}
