package buffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64RoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	nw, err := WriteUint64(buf, 0xdeadbeefcafe)
	require.NoError(t, err)
	require.Equal(t, int64(8), nw)

	var v uint64
	nr, err := ReadUint64(buf, &v)
	require.NoError(t, err)
	require.Equal(t, nw, nr)
	require.Equal(t, uint64(0xdeadbeefcafe), v)
}

func TestAsUint64RoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	_, err := WriteAsUint64(buf, 42)
	require.NoError(t, err)

	var v int
	_, err = ReadAsUint64(buf, &v)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestStringRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	for _, want := range []string{"", "a", "some signal name"} {
		nw, err := WriteString(buf, want)
		require.NoError(t, err)

		var got string
		nr, err := ReadString(buf, &got)
		require.NoError(t, err)
		require.Equal(t, nw, nr)
		require.Equal(t, want, got)
	}
}

func TestReadTruncated(t *testing.T) {
	var v uint64
	_, err := ReadUint64(bytes.NewReader([]byte{1, 2, 3}), &v)
	require.Error(t, err)

	var s string
	_, err = ReadString(bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 5, 'a', 'b'}), &s)
	require.Error(t, err)
}
