package rekuest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"exusiai.dev/shiftboard/internal/pkg/sberr"
)

type query struct {
	Mode string `validate:"omitempty,caseinsensitiveoneof=machine station prefix"`
	Date string `validate:"isodate"`
}

func TestValidStruct(t *testing.T) {
	assert.NoError(t, ValidStruct(&query{Mode: "Station", Date: "2024-03-10"}))
	assert.NoError(t, ValidStruct(&query{}))

	err := ValidStruct(&query{Mode: "team", Date: "10/03/2024"})
	var be *sberr.BoardError
	if assert.True(t, errors.As(err, &be)) {
		assert.Equal(t, sberr.CodeInvalidRequest, be.ErrorCode)
		assert.Len(t, (*be.Extras)["violations"], 2)
	}
}

func TestValidDate(t *testing.T) {
	assert.NoError(t, ValidDate("2024-02-29"))
	assert.Error(t, ValidDate("2023-02-29"))
	assert.Error(t, ValidDate(""))
}
