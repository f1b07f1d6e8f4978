package apperr

import (
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create offer: %w", Validation("CreateOffer", "qty must be positive"))

	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "qty must be positive")
}

func TestStorageUnwrapsCause(t *testing.T) {
	cause := errors.Wrap(io.ErrUnexpectedEOF, "read document")
	err := Storage("Save", cause)

	assert.True(t, IsKind(err, KindStorage))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "Save: read document: unexpected EOF", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(io.EOF))
	assert.False(t, IsKind(nil, KindConflict))
}
