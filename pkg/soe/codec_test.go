package soe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionRequestRoundTrip(t *testing.T) {
	// S1: protocol_version=3, session_id=1008176227, udp_length=512,
	// protocol="LoginUdp_9".
	raw := []byte{
		0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x3C, 0x17, 0x8C, 0x63,
		0x00, 0x00, 0x02, 0x00,
	}
	raw = append(raw, []byte("LoginUdp_9")...)
	raw = append(raw, 0x00)
	require.Len(t, raw, 25)

	c := NewCodec(false, 0)
	pkt, err := c.Parse(raw)
	require.NoError(t, err)

	req, ok := pkt.(SessionRequest)
	require.True(t, ok)
	require.Equal(t, uint32(3), req.ProtocolVersion)
	require.Equal(t, uint32(1008176227), req.SessionID)
	require.Equal(t, uint32(512), req.UDPLength)
	require.Equal(t, "LoginUdp_9", req.Protocol)

	out, err := c.Serialize(req)
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestSessionReplyRoundTrip(t *testing.T) {
	raw := []byte{
		0x00, 0x02, 0x3C, 0x17, 0x8C, 0x63, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x03,
	}
	require.Len(t, raw, 21)

	c := NewCodec(false, 0)
	pkt, err := c.Parse(raw)
	require.NoError(t, err)

	reply, ok := pkt.(SessionReply)
	require.True(t, ok)
	require.Equal(t, uint32(1008176227), reply.SessionID)
	require.Equal(t, uint32(0), reply.CRCSeed)
	require.Equal(t, uint8(2), reply.CRCLength)
	require.Equal(t, uint16(256), reply.EncryptMethod)
	require.Equal(t, uint32(512), reply.UDPLength)

	out, err := c.Serialize(reply)
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDataWithoutCRC(t *testing.T) {
	want := []byte{
		0x00, 0x09, 0x00, 0x00, 0x02, 0x01, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x01, 0x03, 0x00, 0x00, 0x00, 0x73, 0x6F, 0x65, 0x00,
		0x00, 0x00, 0x00,
	}

	c := NewCodec(false, 0)
	d := Data{Sequence: 0, Payload: []byte{
		2, 1, 1, 0, 0, 0, 1, 1, 3, 0, 0, 0, 115, 111, 101, 0, 0, 0, 0,
	}}
	got, err := c.Serialize(d)
	require.NoError(t, err)
	require.Equal(t, want, got)

	pkt, err := c.Parse(want)
	require.NoError(t, err)
	require.Equal(t, d, pkt)
}

func TestDataWithCRC(t *testing.T) {
	c := NewCodec(true, 0)
	d := Data{Sequence: 0, Payload: []byte{
		2, 1, 1, 0, 0, 0, 1, 1, 3, 0, 0, 0, 115, 111, 101, 0, 0, 0, 0,
	}}
	got, err := c.Serialize(d)
	require.NoError(t, err)
	require.Len(t, got, 25)
	require.Equal(t, byte(0x17), got[len(got)-2])
	require.Equal(t, byte(0xCF), got[len(got)-1])

	pkt, err := c.Parse(got)
	require.NoError(t, err)
	require.Equal(t, d, pkt)
}

func TestPingIsFixedTwoBytes(t *testing.T) {
	c := NewCodec(true, 0)
	out, err := c.Serialize(Ping{})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x06}, out)

	pkt, err := c.Parse(out)
	require.NoError(t, err)
	require.Equal(t, Ping{}, pkt)
}

func TestDisconnectRoundTrip(t *testing.T) {
	c := NewCodec(false, 0)
	d := Disconnect{SessionID: 42, Reason: "Timeout"}
	out, err := c.Serialize(d)
	require.NoError(t, err)

	pkt, err := c.Parse(out)
	require.NoError(t, err)
	require.Equal(t, d, pkt)
}

func TestDisconnectShortPacketDefaultsToUnknownReason(t *testing.T) {
	c := NewCodec(false, 0)
	pkt, err := c.Parse([]byte{0x00, 0x05, 0x00, 0x00})
	require.NoError(t, err)
	require.Equal(t, Disconnect{Reason: "unknown"}, pkt)
}

func TestDisconnectUnknownReasonCode(t *testing.T) {
	c := NewCodec(false, 0)
	raw := []byte{0x00, 0x05, 0x00, 0x00, 0x00, 0x01, 0xFF, 0xFF}
	pkt, err := c.Parse(raw)
	require.NoError(t, err)
	d, ok := pkt.(Disconnect)
	require.True(t, ok)
	require.Equal(t, "unknown", d.Reason)
}

func TestSizeErrorOnShortData(t *testing.T) {
	c := NewCodec(false, 0)
	_, err := c.Parse([]byte{0x00, 0x09, 0x00})
	require.Error(t, err)
	var sizeErr *SizeError
	require.ErrorAs(t, err, &sizeErr)
}

func TestCRCErrorOnMismatch(t *testing.T) {
	c := NewCodec(true, 0)
	raw := []byte{0x00, 0x15, 0x00, 0x01, 0xAB, 0xCD}
	_, err := c.Parse(raw)
	require.Error(t, err)
	var crcErr *CRCError
	require.ErrorAs(t, err, &crcErr)
}

func TestUnknownOpcodeIsNotAnError(t *testing.T) {
	c := NewCodec(false, 0)
	raw := []byte{0xFF, 0xFE, 0x01, 0x02}
	pkt, err := c.Parse(raw)
	require.NoError(t, err)
	unk, ok := pkt.(Unknown)
	require.True(t, ok)
	require.Equal(t, raw, unk.Raw)
}

func TestMultiPacketRoundTrip(t *testing.T) {
	c := NewCodec(false, 0)
	ack1, err := c.Serialize(Ack{Sequence: 1})
	require.NoError(t, err)
	ack2, err := c.Serialize(Ack{Sequence: 2})
	require.NoError(t, err)

	mp := MultiPacket{SubPackets: []Packet{Ack{Sequence: 1}, Ack{Sequence: 2}}}
	out, err := c.Serialize(mp)
	require.NoError(t, err)

	want := []byte{0x00, 0x03}
	want = append(want, byte(len(ack1)))
	want = append(want, ack1...)
	want = append(want, byte(len(ack2)))
	want = append(want, ack2...)
	require.Equal(t, want, out)

	pkt, err := c.Parse(out)
	require.NoError(t, err)
	require.Equal(t, mp, pkt)
}

func TestMultiPacketCorruptionOnOverlongSubLength(t *testing.T) {
	c := NewCodec(false, 0)
	// Opcode + 5-byte body clears the 7-byte minimum, but the first
	// sub-packet length (254) claims far more than the 4 bytes left.
	raw := []byte{0x00, 0x03, 0xFE, 0x01, 0x02, 0x03, 0x04}
	_, err := c.Parse(raw)
	require.Error(t, err)
	var corrupt *CorruptionError
	require.ErrorAs(t, err, &corrupt)
}

func TestNetStatusRoundTrip(t *testing.T) {
	c := NewCodec(false, 0)
	req := NetStatusRequest{
		ClientTickCount:  1,
		LastClientUpdate: 2,
		AverageUpdate:    3,
		ShortestUpdate:   4,
		LongestUpdate:    5,
		LastServerUpdate: 6,
		PacketsSent:      7,
		PacketsReceived:  8,
		UnknownField:     9,
	}
	out, err := c.Serialize(req)
	require.NoError(t, err)
	require.Len(t, out, 42)

	pkt, err := c.Parse(out)
	require.NoError(t, err)
	require.Equal(t, req, pkt)
}

// unrecognizedPacket implements Packet but matches no case in
// serializeInto's type switch, forcing the "unrecognized packet
// variant" DeserializingError.
type unrecognizedPacket struct{}

func (unrecognizedPacket) Opcode() Opcode { return Opcode(0xFFFF) }

func TestDeserializingErrorBytesMatchesSentinelFraming(t *testing.T) {
	c := NewCodec(false, 0)
	_, err := c.Serialize(unrecognizedPacket{})
	require.Error(t, err)

	var derr *DeserializingError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, append([]byte{0x00, 0x99}, []byte(derr.Diagnostic)...), derr.Bytes())
}
