package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "Job"))

	nf := FromDB(gorm.ErrRecordNotFound, "Job")
	assert.Equal(t, http.StatusNotFound, nf.Status)
	assert.Equal(t, "Job not found", nf.Message)
	assert.ErrorIs(t, nf, ErrNotFound)

	dup := FromDB(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "User")
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.ErrorIs(t, dup, ErrConflict)

	other := FromDB(errors.New("connection reset"), "Job")
	assert.Equal(t, http.StatusInternalServerError, other.Status)
	assert.Equal(t, "Server error", other.Message)
}

func TestFromDBKeepsAppError(t *testing.T) {
	orig := Forbidden("Not authorized")
	assert.Same(t, orig, FromDB(fmt.Errorf("wrapped: %w", orig), "Job"))
}

func TestIsComparesCode(t *testing.T) {
	err := fmt.Errorf("rate: %w", Conflict("Job already rated"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrInvalidState)

	assert.ErrorIs(t, InvalidState("Job is not open"), ErrInvalidState)
}

func TestAs(t *testing.T) {
	assert.Equal(t, CodeInternalError, As(errors.New("boom")).Code)
	assert.Equal(t, CodeUnauthorized, As(Unauthorized("x")).Code)
}
