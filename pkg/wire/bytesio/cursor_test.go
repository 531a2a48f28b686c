package bytesio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderFixedWidth(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), u8)

	u16, err := r.U16BE()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0203), u16)

	u32, err := r.U32BE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04050607), u32)

	_, err = r.U8()
	require.NoError(t, err)
	require.Equal(t, 8, r.Pos())
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.U32BE()
	require.Error(t, err)
}

func TestNulString(t *testing.T) {
	r := NewReader([]byte("LoginUdp_9\x00trailing"))
	s, err := r.NulString()
	require.NoError(t, err)
	require.Equal(t, "LoginUdp_9", s)
	require.Equal(t, 11, r.Pos())
}

func TestNulStringInvalidUTF8DecodesEmpty(t *testing.T) {
	r := NewReader([]byte{0xff, 0xfe, 0x00})
	s, err := r.NulString()
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestWriterFixedWidth(t *testing.T) {
	w := NewWriter()
	w.WriteU16BE(0x0102)
	w.WriteU32LE(0x04030201)
	require.Equal(t, []byte{0x01, 0x02, 0x01, 0x02, 0x03, 0x04}, w.Bytes())
}

func TestVarLengthRoundTrip(t *testing.T) {
	for _, n := range []uint32{0, 1, 0xFE, 0xFF, 0x100, 0xFFFF, 0x10000, 0xDEADBEEF} {
		w := NewWriter()
		w.WriteVarLength(n)
		got, size, err := PeekVarLength(w.Bytes())
		require.NoError(t, err)
		require.Equal(t, n, got)
		require.Equal(t, w.Len(), size)
	}
}

func TestPeekVarLengthSingleByteForSmallValues(t *testing.T) {
	n, size, err := PeekVarLength([]byte{0x04, 0xAA})
	require.NoError(t, err)
	require.Equal(t, uint32(4), n)
	require.Equal(t, 1, size)
}

func TestPeekVarLengthTwoByteEscape(t *testing.T) {
	n, size, err := PeekVarLength([]byte{0xFF, 0x01, 0x00})
	require.NoError(t, err)
	require.Equal(t, uint32(256), n)
	require.Equal(t, 3, size)
}

func TestPeekVarLengthFourByteEscape(t *testing.T) {
	n, size, err := PeekVarLength([]byte{0xFF, 0xFF, 0x00, 0x01, 0x00, 0x00})
	require.NoError(t, err)
	require.Equal(t, uint32(0x10000), n)
	require.Equal(t, 6, size)
}
