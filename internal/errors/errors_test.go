package errors

import (
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := Unavailablef("no tag decoder")

	assert.True(t, Is(err, ErrUnavailable))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("building extractor: %w", err)
	assert.True(t, Is(wrapped, ErrUnavailable))
}

func TestError_WrapKeepsCause(t *testing.T) {
	err := Wrap(fs.ErrNotExist, CodeNotFound, "release folder missing")

	assert.Equal(t, "release folder missing: file does not exist", err.Error())
	assert.True(t, Is(err, fs.ErrNotExist))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestError_WithDetailsCopies(t *testing.T) {
	base := Validation("bad input")
	detailed := base.WithDetails(map[string]string{"dir": "required"})

	assert.Nil(t, base.Details)
	assert.NotNil(t, detailed.Details)
	assert.Equal(t, base.Message, detailed.Message)
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnsupported, http.StatusUnprocessableEntity},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeUpstream, http.StatusBadGateway},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("OTHER"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(New("plain")))
}
