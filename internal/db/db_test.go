package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"courtyard/internal/apperr"
)

func TestTranslateNil(t *testing.T) {
	assert.NoError(t, Translate(nil))
}

func TestTranslateLockTimeout(t *testing.T) {
	err := Translate(&pq.Error{Code: pq.ErrorCode(pgLockNotAvailable)})
	assert.True(t, apperr.IsContention(err))
}

func TestTranslateUniqueViolation(t *testing.T) {
	err := Translate(&pq.Error{Code: pq.ErrorCode(pgUniqueViolation)})
	assert.True(t, apperr.IsConflict(err))
}

func TestTranslateForeignKeyViolation(t *testing.T) {
	err := Translate(&pq.Error{Code: pq.ErrorCode(pgForeignKeyViolation)})
	assert.True(t, apperr.IsNotFound(err))
}

func TestTranslateNoRows(t *testing.T) {
	err := Translate(fmt.Errorf("load booking: %w", sql.ErrNoRows))
	assert.True(t, apperr.IsNotFound(err))
}

func TestTranslatePassesThroughAppErrors(t *testing.T) {
	original := apperr.New(apperr.StateError, "terminate with outstanding balance")
	assert.Equal(t, apperr.StateError, apperr.KindOf(Translate(original)))
}

func TestTranslateUnknown(t *testing.T) {
	err := Translate(errors.New("connection reset"))
	assert.Equal(t, apperr.Unexpected, apperr.KindOf(err))
}
