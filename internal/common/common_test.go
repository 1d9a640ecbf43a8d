package common

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	condition := func(x uint64) bool {
		buf := WriteVarUintTo(nil, x)
		got, n := ReadVarUint(buf)
		return got == x && n == len(buf)
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestReadVarUintRejects(t *testing.T) {
	_, n := ReadVarUint(nil)
	require.Zero(t, n)
	_, n = ReadVarUint([]byte{0x80, 0x80})
	require.Zero(t, n)
	overflow := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	_, n = ReadVarUint(overflow)
	require.Zero(t, n)
}

func TestFixedRoundTrip(t *testing.T) {
	values := []any{true, int8(-3), uint8(200), int16(-300), uint16(60000),
		int32(-70000), uint32(1 << 31), int64(-1 << 40), uint64(1 << 63),
		float32(1.5), float64(-2.25)}
	for _, want := range values {
		v := reflect.ValueOf(want)
		k := v.Kind()
		require.True(t, IsFixedKind(k))
		buf := AppendFixed(nil, v, k)
		require.Len(t, buf, FixedSize(k))
		got := reflect.New(v.Type()).Elem()
		SetFixed(got, buf, k)
		require.Equal(t, want, got.Interface())
	}
	require.False(t, IsFixedKind(reflect.String))
	require.Equal(t, -1, FixedSize(reflect.String))
}

func TestAliasFixed(t *testing.T) {
	if !LittleEndianHost {
		t.Skip("aliasing needs a little-endian host")
	}
	src := []int8{1, -2, 3}
	buf := RawBytes(reflect.ValueOf(src), 1)
	var dst []int8
	AliasFixed(reflect.ValueOf(&dst).Elem(), buf, len(src))
	require.Equal(t, src, dst)
	src[0] = 9
	require.Equal(t, int8(9), dst[0])
}
