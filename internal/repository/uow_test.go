package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestIsLockConflict(t *testing.T) {
	assert.True(t, IsLockConflict(fmt.Errorf("lock slot 3: %w", &pgconn.PgError{Code: "40P01"})))
	assert.True(t, IsLockConflict(&pgconn.PgError{Code: "40001"}))
	assert.False(t, IsLockConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsLockConflict(nil))
}
