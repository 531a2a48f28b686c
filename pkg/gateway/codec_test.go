package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginRequestRoundTrip(t *testing.T) {
	raw := []byte{
		1, 244, 221, 253, 245, 153, 56, 150, 124, 5, 0, 0, 0, 105, 116, 115, 109, 101, 19, 0,
		0, 0, 67, 108, 105, 101, 110, 116, 80, 114, 111, 116, 111, 99, 111, 108, 95, 49, 48,
		56, 48, 14, 0, 0, 0, 48, 46, 49, 57, 53, 46, 52, 46, 49, 52, 55, 53, 56, 54,
	}
	require.Len(t, raw, 59)

	c := NewCodec()
	pkt, err := c.Parse(raw)
	require.NoError(t, err)

	req, ok := pkt.(LoginRequest)
	require.True(t, ok)
	require.Equal(t, uint64(8977425141117869556), req.CharacterID)
	require.Equal(t, "itsme", req.Ticket)
	require.Equal(t, "ClientProtocol_1080", req.ClientProtocol)
	require.Equal(t, "0.195.4.147586", req.ClientBuild)

	out, err := c.Serialize(req)
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestLoginReplyRoundTrip(t *testing.T) {
	c := NewCodec()
	pkt, err := c.Parse([]byte{2, 1})
	require.NoError(t, err)
	require.Equal(t, LoginReply{LoggedIn: true}, pkt)

	out, err := c.Serialize(LoginReply{LoggedIn: true})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 1}, out)
}

func TestTunnelDataParseChannelZero(t *testing.T) {
	raw := []byte{
		5, 254, 3, 237, 98, 176, 99, 0, 109, 235, 2, 98, 113, 5, 229, 11, 115, 16, 119, 61, 0,
		0, 0, 0, 0, 0, 0, 0, 48, 33, 0, 0,
	}
	c := NewCodec()
	pkt, err := c.Parse(raw)
	require.NoError(t, err)

	td, ok := pkt.(TunnelData)
	require.True(t, ok)
	require.Equal(t, uint8(0), td.Channel)
	require.False(t, td.FromServer)
	require.Equal(t, raw[1:], td.Payload)
}

func TestTunnelDataPackChannelZero(t *testing.T) {
	c := NewCodec()
	payload := []byte{68, 82, 37, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0}
	out, err := c.Serialize(TunnelData{Channel: 0, Payload: payload, FromServer: false})
	require.NoError(t, err)
	require.Equal(t, []byte{5, 68, 82, 37, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0}, out)
}

func TestTunnelDataPackChannelOne(t *testing.T) {
	c := NewCodec()
	payload := []byte{68, 82, 37, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0}
	out, err := c.Serialize(TunnelData{Channel: 1, Payload: payload, FromServer: false})
	require.NoError(t, err)
	require.Equal(t, []byte{37, 68, 82, 37, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0}, out)
}

func TestLogoutAndForceDisconnectRoundTrip(t *testing.T) {
	c := NewCodec()
	out, err := c.Serialize(Logout{})
	require.NoError(t, err)
	pkt, err := c.Parse(out)
	require.NoError(t, err)
	require.Equal(t, Logout{}, pkt)

	out, err = c.Serialize(ForceDisconnect{})
	require.NoError(t, err)
	pkt, err = c.Parse(out)
	require.NoError(t, err)
	require.Equal(t, ForceDisconnect{}, pkt)
}

func TestMalformedLoginRequestProducesDeserializingError(t *testing.T) {
	// Header byte 33 masks to opcode 0x01 (LoginRequest) with channel 1;
	// the body is too short to carry the three length-prefixed strings,
	// so parsing must fail rather than panic or silently truncate.
	raw := []byte{
		33, 72, 249, 170, 117, 72, 100, 162, 106, 248, 149, 6, 31, 86, 181, 12, 175, 26, 141,
		46, 129, 174, 4, 102, 176, 167, 115, 131, 253, 188, 124, 226, 94, 250, 196, 53, 54, 99,
	}
	c := NewCodec()
	_, err := c.Parse(raw)
	require.Error(t, err)
}

func TestUnknownOpcodePreservesRawAndChannel(t *testing.T) {
	raw := []byte{0x49, 0x01, 0x02, 0x03} // opcode 0x09 is outside the taxonomy
	c := NewCodec()
	pkt, err := c.Parse(raw)
	require.NoError(t, err)
	unk, ok := pkt.(Unknown)
	require.True(t, ok)
	require.Equal(t, raw, unk.Raw)
	_, channel := unpackHeader(raw[0])
	require.Equal(t, channel, unk.Channel)
}
