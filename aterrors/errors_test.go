package aterrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorParts(t *testing.T) {
	assert.Equal(t, "Overflow", GetErrorName(ErrVOverflow))
	assert.Equal(t, "BadNumber", GetErrorName(fmt.Errorf("%q: %w", "x", ErrCBadNumber)))

	wrapped := fmt.Errorf("load: %w", ErrSTruncated)
	assert.ErrorIs(t, wrapped, ErrSTruncated)

	assert.Equal(t, "No Error", GetErrorName(nil))
	assert.Equal(t, "plain", GetErrorName(fmt.Errorf("plain")))
}
