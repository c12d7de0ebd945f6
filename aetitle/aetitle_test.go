package aetitle_test

import (
	"testing"

	"github.com/dulengine/dul/aetitle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsAllWhitespace(t *testing.T) {
	_, err := aetitle.Parse("    ")
	assert.Error(t, err)
}

func TestParseRejectsTooLong(t *testing.T) {
	_, err := aetitle.Parse("THIS_AE_TITLE_IS_WAY_TOO_LONG")
	assert.Error(t, err)
}

func TestFromWireTrimsTrailingSpaces(t *testing.T) {
	wire := []byte("STORESCP        ")[:16]
	aet, err := aetitle.FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, "STORESCP", aet.String())
}

func TestWireRoundTrip(t *testing.T) {
	aet, err := aetitle.Parse("ECHOSCU")
	require.NoError(t, err)
	wire := aet.Wire()
	back, err := aetitle.FromWire(wire[:])
	require.NoError(t, err)
	assert.True(t, aet.Equal(back))
}
