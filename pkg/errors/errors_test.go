package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidation("bad input", nil), http.StatusBadRequest},
		{NewNotFound("vet", nil), http.StatusNotFound},
		{NewForbidden("not yours", nil), http.StatusForbidden},
		{NewUnauthorized(nil), http.StatusUnauthorized},
		{NewInternal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode())
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "vet not found", NewNotFound("vet", nil).Error())

	cause := errors.New("no rows")
	wrapped := NewNotFound("vet", cause)
	assert.Equal(t, "vet not found: no rows", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrValidation, CodeOf(NewValidation("bad", nil)))
	assert.Equal(t, ErrInternal, CodeOf(errors.New("plain")))

	// classification survives fmt wrapping
	wrapped := fmt.Errorf("loading vet: %w", NewNotFound("vet", nil))
	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsForbidden(wrapped))
}
