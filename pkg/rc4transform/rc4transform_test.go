package rc4transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyIsSymmetric(t *testing.T) {
	key := []byte("sessionkey123")
	enc, err := New(key)
	require.NoError(t, err)
	dec, err := New(key)
	require.NoError(t, err)

	plaintext := []byte("tunnel payload bytes")
	ciphertext := enc.Apply(plaintext)
	require.NotEqual(t, plaintext, ciphertext)

	roundTrip := dec.Apply(ciphertext)
	require.Equal(t, plaintext, roundTrip)
}

func TestNewRejectsEmptyKey(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
