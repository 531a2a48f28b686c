package gateway

import (
	"time"

	"github.com/soeframe/soeframe/pkg/metrics"
	"github.com/soeframe/soeframe/pkg/soe"
	"github.com/soeframe/soeframe/pkg/wire/bytesio"
)

// Codec parses and serializes gateway packets. Gateway frames ride
// inside an SOE Data/DataFragment/Ordered payload; this codec operates
// on that payload directly and has no CRC or session state of its own.
type Codec struct {
	// Metrics is consulted on every Parse/Serialize call if non-nil;
	// leave it nil for zero overhead.
	Metrics metrics.CodecMetrics

	scratch bytesio.Writer
}

// NewCodec returns a ready-to-use gateway Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Parse decodes one gateway frame from buf.
func (c *Codec) Parse(buf []byte) (pkt Packet, err error) {
	start := time.Now()
	defer func() {
		opcode := "Unknown"
		if pkt != nil {
			opcode = pkt.GatewayOpcode().String()
		}
		metrics.ObserveParse(c.Metrics, "gateway", opcode, time.Since(start), err != nil)
	}()

	if len(buf) < 1 {
		return Unknown{Raw: append([]byte(nil), buf...)}, nil
	}
	opcode, channel := unpackHeader(buf[0])
	body := buf[1:]

	switch opcode {
	case OpcodeLoginRequest:
		return parseLoginRequest(body)
	case OpcodeLoginReply:
		return parseLoginReply(body)
	case OpcodeLogout:
		return Logout{}, nil
	case OpcodeForceDisconnect:
		return ForceDisconnect{}, nil
	case OpcodeTunnelDataClient:
		return TunnelData{Channel: channel, Payload: append([]byte(nil), body...), FromServer: false}, nil
	case OpcodeTunnelDataServer:
		return TunnelData{Channel: channel, Payload: append([]byte(nil), body...), FromServer: true}, nil
	case OpcodeChannelIsRoutable:
		return ChannelIsRoutable{}, nil
	case OpcodeChannelIsNotRoutable:
		return ChannelIsNotRoutable{}, nil
	default:
		return Unknown{Channel: channel, Raw: append([]byte(nil), buf...)}, nil
	}
}

func parseLoginRequest(body []byte) (Packet, error) {
	r := bytesio.NewReader(body)
	characterID, err := r.U64LE()
	if err != nil {
		return nil, &soe.DeserializingError{Diagnostic: "login request: short character id"}
	}
	ticket, err := readPrefixedString(r)
	if err != nil {
		return nil, &soe.DeserializingError{Diagnostic: "login request: malformed ticket"}
	}
	clientProtocol, err := readPrefixedString(r)
	if err != nil {
		return nil, &soe.DeserializingError{Diagnostic: "login request: malformed client_protocol"}
	}
	clientBuild, err := readPrefixedString(r)
	if err != nil {
		return nil, &soe.DeserializingError{Diagnostic: "login request: malformed client_build"}
	}
	return LoginRequest{
		CharacterID:    characterID,
		Ticket:         ticket,
		ClientProtocol: clientProtocol,
		ClientBuild:    clientBuild,
	}, nil
}

func readPrefixedString(r *bytesio.Reader) (string, error) {
	length, err := r.U32LE()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func parseLoginReply(body []byte) (Packet, error) {
	if len(body) < 1 {
		return nil, &soe.DeserializingError{Diagnostic: "login reply: missing logged_in byte"}
	}
	return LoginReply{LoggedIn: body[0] != 0}, nil
}

// Serialize encodes pkt into a new byte slice.
func (c *Codec) Serialize(pkt Packet) ([]byte, error) {
	start := time.Now()
	c.scratch.Reset()
	if err := serializeInto(&c.scratch, pkt); err != nil {
		return nil, err
	}
	out := append([]byte(nil), c.scratch.Bytes()...)
	metrics.ObserveSerialize(c.Metrics, "gateway", pkt.GatewayOpcode().String(), time.Since(start))
	return out, nil
}

func serializeInto(w *bytesio.Writer, pkt Packet) error {
	switch p := pkt.(type) {
	case LoginRequest:
		w.WriteU8(packHeader(OpcodeLoginRequest, 0))
		w.WriteU64LE(p.CharacterID)
		writePrefixedString(w, p.Ticket)
		writePrefixedString(w, p.ClientProtocol)
		writePrefixedString(w, p.ClientBuild)
	case LoginReply:
		w.WriteU8(packHeader(OpcodeLoginReply, 0))
		if p.LoggedIn {
			w.WriteU8(1)
		} else {
			w.WriteU8(0)
		}
	case Logout:
		w.WriteU8(packHeader(OpcodeLogout, 0))
	case ForceDisconnect:
		w.WriteU8(packHeader(OpcodeForceDisconnect, 0))
	case TunnelData:
		base := OpcodeTunnelDataClient
		if p.FromServer {
			base = OpcodeTunnelDataServer
		}
		w.WriteU8(packHeader(base, p.Channel))
		w.WriteBytes(p.Payload)
	case ChannelIsRoutable:
		w.WriteU8(packHeader(OpcodeChannelIsRoutable, 0))
	case ChannelIsNotRoutable:
		w.WriteU8(packHeader(OpcodeChannelIsNotRoutable, 0))
	case Unknown:
		w.WriteBytes(p.Raw)
	default:
		return &soe.DeserializingError{Diagnostic: "gateway: unrecognized packet variant"}
	}
	return nil
}

func writePrefixedString(w *bytesio.Writer, s string) {
	w.WriteU32LE(uint32(len(s)))
	w.WriteBytes([]byte(s))
}
