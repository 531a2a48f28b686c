// Package rc4transform applies the RC4 stream cipher as a transform
// outside the SOE packet codec boundary. spec.md §1 scopes RC4 out of
// the codec itself ("a well-known construction; the codec uses it only
// as a stream transform applied outside the packet codec"): callers
// decrypt a Data/DataFragment/Ordered payload with this package before
// handing it to the SOE or Gateway codec, and encrypt after serializing.
package rc4transform

import "golang.org/x/crypto/rc4"

// Transform wraps an RC4 key schedule, matching the encrypt_method
// negotiated in a SessionReply (non-zero means RC4-encrypted payloads).
type Transform struct {
	cipher *rc4.Cipher
}

// New builds a Transform from key. RC4 requires a key of 1 to 256
// bytes; any other length is rejected by the underlying cipher.
func New(key []byte) (*Transform, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Transform{cipher: c}, nil
}

// Apply XORs src with the keystream into a new slice the same length
// as src. RC4 is symmetric: the same call both encrypts and decrypts.
func (t *Transform) Apply(src []byte) []byte {
	dst := make([]byte, len(src))
	t.cipher.XORKeyStream(dst, src)
	return dst
}
