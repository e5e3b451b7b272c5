package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidQueryError(t *testing.T) {
	err := NewInvalidQueryError("query is too short")

	assert.ErrorIs(t, err, ErrInvalidQuery)

	var iqe *InvalidQueryError
	require.ErrorAs(t, err, &iqe)
	assert.Equal(t, "query is too short", iqe.Reason)
	assert.Equal(t, "invalid query: query is too short", err.Error())
}

func TestUserError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("Failed to save card", cause)

	assert.Equal(t, "Failed to save card: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewUserError("Nothing to do", nil)
	assert.Equal(t, "Nothing to do", bare.Error())
}
