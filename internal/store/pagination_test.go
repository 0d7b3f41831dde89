package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

func TestPaginationParams_Normalize(t *testing.T) {
	p := PaginationParams{}
	p.Normalize()
	assert.Equal(t, DefaultLimit, p.Limit)

	p = PaginationParams{Limit: 10000}
	p.Normalize()
	assert.Equal(t, MaxLimit, p.Limit)

	p = PaginationParams{Limit: 7}
	p.Normalize()
	assert.Equal(t, 7, p.Limit)
}

func TestCursorRoundTrip(t *testing.T) {
	c := EncodeCursor("2026-01-02T03:04:05Z", "rel-abc")

	parts, err := DecodeCursor(c, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-02T03:04:05Z", "rel-abc"}, parts)

	parts, err = DecodeCursor("", 2)
	require.NoError(t, err)
	assert.Nil(t, parts)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("!!!", 2)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = DecodeCursor(EncodeCursor("only-one"), 2)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}
