package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum32MatchesReferenceVector(t *testing.T) {
	data := []byte{0, 21, 0, 0, 2}
	require.Equal(t, uint32(1874907695), Sum32(data, 0))
}

func TestAppendCRCMatchesReferenceVector(t *testing.T) {
	data := []byte{
		0, 9, 0, 0, 0, 169, 183, 185, 67, 241, 64, 164, 5, 143, 19, 35,
		87, 21, 163, 205, 26, 83, 24, 212,
	}
	got := AppendCRC(append([]byte(nil), data...), 0)
	want := append(append([]byte(nil), data...), 0xDC, 0x51)
	require.Equal(t, want, got)
}

func TestAppendCRCDataWithCRCVector(t *testing.T) {
	// Matches spec.md S4: Data{sequence:0, data:[...]} with use_crc=true
	// appends 0x17, 0xCF.
	data := []byte{
		0x00, 0x09, 0x00, 0x00,
		2, 1, 1, 0, 0, 0, 1, 1, 3, 0, 0, 0, 115, 111, 101, 0, 0, 0, 0,
	}
	got := AppendCRC(append([]byte(nil), data...), 0)
	require.Equal(t, byte(0x17), got[len(got)-2])
	require.Equal(t, byte(0xCF), got[len(got)-1])
}

func TestTruncate16(t *testing.T) {
	require.Equal(t, uint16(0x1234), Truncate16(0xABCD1234))
}
