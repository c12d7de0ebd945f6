package transfersyntax_test

import (
	"encoding/binary"
	"testing"

	"github.com/dulengine/dul/transfersyntax"
	"github.com/stretchr/testify/assert"
)

func TestDecodeKnownSyntaxes(t *testing.T) {
	ts := transfersyntax.Decode(transfersyntax.ImplicitVRLittleEndian)
	assert.Equal(t, transfersyntax.ImplicitVR, ts.VR)
	assert.Equal(t, binary.LittleEndian, ts.ByteOrder)

	ts = transfersyntax.Decode(transfersyntax.ExplicitVRBigEndian)
	assert.Equal(t, transfersyntax.ExplicitVR, ts.VR)
	assert.Equal(t, binary.BigEndian, ts.ByteOrder)

	ts = transfersyntax.Decode(transfersyntax.DeflatedExplicitVRLittleEndian)
	assert.True(t, ts.Deflated)
}

func TestIsDefault(t *testing.T) {
	assert.True(t, transfersyntax.IsDefault(transfersyntax.ImplicitVRLittleEndian))
	assert.False(t, transfersyntax.IsDefault("1.2.840.10008.1.2.4.50"))
}
