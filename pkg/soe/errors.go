package soe

import "fmt"

// SizeError reports a datagram shorter than the per-opcode minimum
// (including the CRC suffix when CRC is enabled).
type SizeError struct {
	Opcode Opcode
	Need   int
	Got    int
	Raw    []byte
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("soe: %s: need at least %d bytes, got %d", e.Opcode, e.Need, e.Got)
}

// CRCError reports a computed/wire CRC mismatch.
type CRCError struct {
	Opcode   Opcode
	Expected uint16
	Given    uint16
	Raw      []byte
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("soe: %s: crc mismatch: expected %#04x, got %#04x", e.Opcode, e.Expected, e.Given)
}

// CorruptionError reports a MultiPacket/Group sub-packet length that is
// zero or extends past the outer payload.
type CorruptionError struct {
	SubLength int
	OuterEnd  int
	Cursor    int
	Raw       []byte
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("soe: corrupt sub-packet: length %d at cursor %d exceeds outer end %d",
		e.SubLength, e.Cursor, e.OuterEnd)
}

// DeserializingError reports that a caller-supplied record could not be
// encoded into a typed packet.
type DeserializingError struct {
	Diagnostic string
}

func (e *DeserializingError) Error() string {
	return fmt.Sprintf("soe: deserializing: %s", e.Diagnostic)
}

// deserializingSentinel is the 2-byte prefix spec.md §4.3 specifies for
// deserializer failures from structured input: {0x00, 0x99} followed by
// a diagnostic string. This package returns a typed DeserializingError
// instead (spec.md §4.3 permits either), but Bytes reconstructs the
// sentinel-framed form for callers that specifically want the original
// wire framing rather than a Go error value.
var deserializingSentinel = [2]byte{0x00, 0x99}

// Bytes returns the legacy sentinel-framed wire representation of e:
// the {0x00, 0x99} prefix followed by the diagnostic string.
func (e *DeserializingError) Bytes() []byte {
	out := make([]byte, 0, len(deserializingSentinel)+len(e.Diagnostic))
	out = append(out, deserializingSentinel[:]...)
	out = append(out, e.Diagnostic...)
	return out
}
