package uid_test

import (
	"testing"

	"github.com/dulengine/dul/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidSyntax(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
	}{
		{"1.2.840.10008.1.1", true},
		{"1.2.840.10008.1.2   ", true}, // trailing pad stripped
		{"", false},
		{"1..2", false},
		{"1.02.3", false},
		{"1.2.a.3", false},
	}
	for _, c := range cases {
		u := uid.New(c.raw)
		assert.Equalf(t, c.valid, u.IsValid(), "raw=%q", c.raw)
	}
}

func TestVerificationSOPClassIsRegistered(t *testing.T) {
	entry, ok := uid.Lookup("1.2.840.10008.1.1")
	require.True(t, ok)
	assert.Equal(t, uid.ServiceClassVerification, entry.ServiceClass)
}

func TestRegisterExtensionPoint(t *testing.T) {
	r := uid.NewRegistry()
	r.Register("1.2.9999", "MyCustomSOPClass", uid.ServiceClassStorage, "C-STORE")
	entry, ok := r.Get("1.2.9999")
	require.True(t, ok)
	assert.Equal(t, "C-STORE", entry.DIMSEMsgType)
}

func TestEqual(t *testing.T) {
	a := uid.New("1.2.3")
	b := uid.New("1.2.3 ")
	assert.True(t, a.Equal(b))
}
