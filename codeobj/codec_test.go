package codeobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rand0mdevel0per/pyser/value"
)

func sampleCode() *value.CodeObject {
	return &value.CodeObject{
		Bytecode:    []byte{0x01, 0x02, 0x03},
		Names:       []string{"print"},
		Varnames:    []string{"x"},
		Filename:    "<string>",
		QualName:    "f",
		ArgCount:    1,
		StackSize:   2,
		Flags:       0x43,
		FirstLineNo: 1,
	}
}

func TestEncodeDecodePayloadRoundTrips(t *testing.T) {
	co := sampleCode()
	p := EncodePayload(co)
	assert.Equal(t, SupportedVersion, p.Version)

	back, err := DecodePayload(p)
	require.NoError(t, err)
	assert.Equal(t, co.Bytecode, back.Bytecode)
	assert.Equal(t, co.Names, back.Names)
	assert.Equal(t, co.QualName, back.QualName)
	assert.Equal(t, co.ArgCount, back.ArgCount)
	assert.Equal(t, SupportedVersion, back.Version)
}

func TestEncodePayloadDefaultsVersion(t *testing.T) {
	co := sampleCode()
	co.Version = ""
	p := EncodePayload(co)
	assert.Equal(t, SupportedVersion, p.Version)
}

func TestDecodePayloadRejectsVersionMismatch(t *testing.T) {
	co := sampleCode()
	co.Version = "pyser-bytecode-v0"
	p := EncodePayload(co)

	_, err := DecodePayload(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pyser-bytecode-v0")
}
