package value

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type complexData struct {
	Value int64          `pyser:"value"`
	Extra map[string]Value `pyser:",extra"`
}

func TestRegistryRoundTripsKnownType(t *testing.T) {
	assert := assert.New(t)
	reg := NewRegistry()
	reg.Register("testpkg", "ComplexData", func() Instance {
		return newStructInstance("testpkg", "ComplexData", reflect.TypeOf(complexData{}))
	})

	f, ok := reg.Lookup("testpkg", "ComplexData")
	require.True(t, ok)

	inst := f()
	require.NoError(t, inst.SetAttr("value", NewInt(7)))
	require.NoError(t, inst.SetAttr("unknown_attr", String("side-channel")))

	si := inst.(*structInstance)
	cd := si.Struct().Interface().(complexData)
	assert.Equal(int64(7), cd.Value)
	assert.Equal(String("side-channel"), cd.Extra["unknown_attr"])
}

func TestRegistryLookupMiss(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Lookup("nope", "Nope")
	assert.False(t, ok)
}

func TestFullName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("pkg.Type", FullName("pkg", "Type"))
	assert.Equal("Type", FullName("", "Type"))
}

func TestRegisterStructViaPrototype(t *testing.T) {
	reg := NewRegistry()
	RegisterStructOn(reg, "testpkg", "ComplexData", (*complexData)(nil))

	f, ok := reg.Lookup("testpkg", "ComplexData")
	require.True(t, ok)
	inst := f()
	require.NoError(t, inst.SetAttr("value", NewInt(9)))
	si := inst.(*structInstance)
	assert.Equal(t, int64(9), si.Struct().Interface().(complexData).Value)
}
