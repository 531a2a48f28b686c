package soe

import (
	"time"

	"github.com/soeframe/soeframe/pkg/metrics"
	"github.com/soeframe/soeframe/pkg/wire/bytesio"
	"github.com/soeframe/soeframe/pkg/wire/crc"
)

// Codec parses and serializes SOE datagrams under a fixed CRC
// configuration. A Codec instance owns a private scratch buffer reused
// across Serialize calls; it is not safe for concurrent use by multiple
// goroutines (spec.md §5), but disjoint instances are fully
// independent.
type Codec struct {
	UseCRC  bool
	CRCSeed uint32

	// Metrics is consulted on every Parse/Serialize call if non-nil;
	// leave it nil for zero overhead.
	Metrics metrics.CodecMetrics

	scratch bytesio.Writer
}

// NewCodec returns a Codec with the given CRC configuration and no
// metrics collection.
func NewCodec(useCRC bool, crcSeed uint32) *Codec {
	return &Codec{UseCRC: useCRC, CRCSeed: crcSeed}
}

// Parse decodes one SOE datagram from buf.
func (c *Codec) Parse(buf []byte) (Packet, error) {
	start := time.Now()
	pkt, err := c.parse(buf, c.UseCRC)
	opcode := "Unknown"
	if pkt != nil {
		opcode = pkt.Opcode().String()
	}
	metrics.ObserveParse(c.Metrics, "soe", opcode, time.Since(start), err != nil)
	return pkt, err
}

func (c *Codec) parse(buf []byte, useCRC bool) (Packet, error) {
	if len(buf) < 2 {
		return Unknown{RawOpcode: 0, Raw: append([]byte(nil), buf...)}, nil
	}
	op := Opcode(uint16(buf[0])<<8 | uint16(buf[1]))

	if op == OpcodeDisconnect {
		return parseDisconnect(buf), nil
	}

	min, hasMin := MinSize(op)
	if !hasMin {
		if op == OpcodePing {
			return Ping{}, nil
		}
		if op == OpcodeFatalError {
			return FatalError{Raw: append([]byte(nil), buf...)}, nil
		}
		return Unknown{RawOpcode: op, Raw: append([]byte(nil), buf...)}, nil
	}

	wantsCRC := useCRC && carriesCRC(op)
	need := min
	if wantsCRC {
		need += 2
	}
	if len(buf) < need {
		return nil, &SizeError{Opcode: op, Need: need, Got: len(buf), Raw: append([]byte(nil), buf...)}
	}

	payload := buf
	if wantsCRC {
		body := buf[:len(buf)-2]
		expected := crc.Truncate16(crc.Sum32(body, c.CRCSeed))
		given := uint16(buf[len(buf)-2])<<8 | uint16(buf[len(buf)-1])
		if expected != given {
			return nil, &CRCError{Opcode: op, Expected: expected, Given: given, Raw: append([]byte(nil), buf...)}
		}
		payload = body
	}

	if fixedSize(op) && len(payload) != min {
		return nil, &SizeError{Opcode: op, Need: min, Got: len(payload), Raw: append([]byte(nil), buf...)}
	}

	switch op {
	case OpcodeSessionRequest:
		return parseSessionRequest(payload)
	case OpcodeSessionReply:
		return parseSessionReply(payload)
	case OpcodeNetStatusReq:
		return parseNetStatusRequest(payload)
	case OpcodeNetStatusReply:
		return parseNetStatusReply(payload)
	case OpcodeData:
		return Data{Sequence: seqOf(payload), Payload: clonePayload(payload)}, nil
	case OpcodeDataFragment:
		return DataFragment{Sequence: seqOf(payload), Payload: clonePayload(payload)}, nil
	case OpcodeOrdered:
		return Ordered{Sequence: seqOf(payload), Payload: clonePayload(payload)}, nil
	case OpcodeAck:
		return Ack{Sequence: seqOf(payload)}, nil
	case OpcodeOutOfOrder:
		return OutOfOrder{Sequence: seqOf(payload)}, nil
	case OpcodeMultiPacket:
		subs, err := c.parseSubPackets(payload[2:])
		if err != nil {
			return nil, err
		}
		return MultiPacket{SubPackets: subs}, nil
	case OpcodeGroup:
		subs, err := c.parseSubPackets(payload[2:])
		if err != nil {
			return nil, err
		}
		return Group{SubPackets: subs}, nil
	default:
		return Unknown{RawOpcode: op, Raw: append([]byte(nil), buf...)}, nil
	}
}

func seqOf(payload []byte) uint16 {
	return uint16(payload[2])<<8 | uint16(payload[3])
}

func clonePayload(payload []byte) []byte {
	return append([]byte(nil), payload[4:]...)
}

// parseDisconnect implements the robustness carve-out in spec.md §4.3:
// a short Disconnect never produces a size error, it defaults to
// reason "unknown".
func parseDisconnect(buf []byte) Packet {
	const minLen = 8 // 2B opcode + 4B session_id + 2B reason
	if len(buf) < minLen {
		return Disconnect{Reason: "unknown"}
	}
	r := bytesio.NewReader(buf[2:])
	sessionID, _ := r.U32BE()
	reason, _ := r.U16BE()
	return Disconnect{SessionID: sessionID, Reason: disconnectReasonName(reason)}
}

func parseSessionRequest(payload []byte) (Packet, error) {
	r := bytesio.NewReader(payload[2:])
	protoVersion, err := r.U32BE()
	if err != nil {
		return nil, &SizeError{Opcode: OpcodeSessionRequest, Need: 14, Got: len(payload), Raw: payload}
	}
	sessionID, err := r.U32BE()
	if err != nil {
		return nil, &SizeError{Opcode: OpcodeSessionRequest, Need: 14, Got: len(payload), Raw: payload}
	}
	udpLength, err := r.U32BE()
	if err != nil {
		return nil, &SizeError{Opcode: OpcodeSessionRequest, Need: 14, Got: len(payload), Raw: payload}
	}
	protocol, err := r.NulString()
	if err != nil {
		return nil, &SizeError{Opcode: OpcodeSessionRequest, Need: 14, Got: len(payload), Raw: payload}
	}
	return SessionRequest{
		ProtocolVersion: protoVersion,
		SessionID:       sessionID,
		UDPLength:       udpLength,
		Protocol:        protocol,
	}, nil
}

func parseSessionReply(payload []byte) (Packet, error) {
	r := bytesio.NewReader(payload[2:])
	sessionID, _ := r.U32BE()
	crcSeed, _ := r.U32BE()
	crcLength, _ := r.U8()
	encryptMethod, _ := r.U16BE()
	udpLength, _ := r.U32BE()
	return SessionReply{
		SessionID:     sessionID,
		CRCSeed:       crcSeed,
		CRCLength:     crcLength,
		EncryptMethod: encryptMethod,
		UDPLength:     udpLength,
	}, nil
}

func parseNetStatusRequest(payload []byte) (Packet, error) {
	r := bytesio.NewReader(payload[2:])
	clientTick, _ := r.U16BE()
	lastClientUpdate, _ := r.U32BE()
	avgUpdate, _ := r.U32BE()
	shortestUpdate, _ := r.U32BE()
	longestUpdate, _ := r.U32BE()
	lastServerUpdate, _ := r.U32BE()
	packetsSent, _ := r.U64BE()
	packetsReceived, _ := r.U64BE()
	unknownField, _ := r.U16BE()
	return NetStatusRequest{
		ClientTickCount:  clientTick,
		LastClientUpdate: lastClientUpdate,
		AverageUpdate:    avgUpdate,
		ShortestUpdate:   shortestUpdate,
		LongestUpdate:    longestUpdate,
		LastServerUpdate: lastServerUpdate,
		PacketsSent:      packetsSent,
		PacketsReceived:  packetsReceived,
		UnknownField:     unknownField,
	}, nil
}

func parseNetStatusReply(payload []byte) (Packet, error) {
	r := bytesio.NewReader(payload[2:])
	clientTick, _ := r.U16BE()
	serverTick, _ := r.U32BE()
	clientSent, _ := r.U64BE()
	clientReceived, _ := r.U64BE()
	serverSent, _ := r.U64BE()
	serverReceived, _ := r.U64BE()
	unknownField, _ := r.U16BE()
	return NetStatusReply{
		ClientTickCount:      clientTick,
		ServerTickCount:      serverTick,
		ClientPacketSent:     clientSent,
		ClientPacketReceived: clientReceived,
		ServerPacketSent:     serverSent,
		ServerPacketReceived: serverReceived,
		UnknownField:         unknownField,
	}, nil
}

// parseSubPackets decodes the repeating (length, bytes) sequence
// carried by a MultiPacket/Group payload (already stripped of its
// 2-byte opcode and any outer CRC). Sub-packets never carry their own
// CRC regardless of the outer session's CRC flag.
func (c *Codec) parseSubPackets(body []byte) ([]Packet, error) {
	var subs []Packet
	cursor := 0
	for cursor < len(body) {
		length, consumed, err := bytesio.PeekVarLength(body[cursor:])
		if err != nil {
			return nil, &CorruptionError{SubLength: 0, OuterEnd: len(body), Cursor: cursor, Raw: body}
		}
		start := cursor + consumed
		end := start + int(length)
		if length == 0 || end > len(body) {
			return nil, &CorruptionError{SubLength: int(length), OuterEnd: len(body), Cursor: cursor, Raw: body}
		}
		sub, err := c.parse(body[start:end], false)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
		cursor = end
	}
	return subs, nil
}

// Serialize encodes pkt into a new byte slice, appending CRC when the
// codec's configuration calls for it.
func (c *Codec) Serialize(pkt Packet) ([]byte, error) {
	start := time.Now()
	c.scratch.Reset()
	if err := c.serializeInto(&c.scratch, pkt, c.UseCRC); err != nil {
		return nil, err
	}
	out := append([]byte(nil), c.scratch.Bytes()...)
	metrics.ObserveSerialize(c.Metrics, "soe", pkt.Opcode().String(), time.Since(start))
	return out, nil
}

func (c *Codec) serializeInto(w *bytesio.Writer, pkt Packet, useCRC bool) error {
	start := w.Len()
	op := pkt.Opcode()

	switch p := pkt.(type) {
	case SessionRequest:
		w.WriteU16BE(uint16(OpcodeSessionRequest))
		w.WriteU32BE(p.ProtocolVersion)
		w.WriteU32BE(p.SessionID)
		w.WriteU32BE(p.UDPLength)
		w.WriteNulString(p.Protocol)
	case SessionReply:
		w.WriteU16BE(uint16(OpcodeSessionReply))
		w.WriteU32BE(p.SessionID)
		w.WriteU32BE(p.CRCSeed)
		w.WriteU8(p.CRCLength)
		w.WriteU16BE(p.EncryptMethod)
		w.WriteU32BE(p.UDPLength)
		w.WriteU32BE(3)
	case NetStatusRequest:
		w.WriteU16BE(uint16(OpcodeNetStatusReq))
		w.WriteU16BE(p.ClientTickCount)
		w.WriteU32BE(p.LastClientUpdate)
		w.WriteU32BE(p.AverageUpdate)
		w.WriteU32BE(p.ShortestUpdate)
		w.WriteU32BE(p.LongestUpdate)
		w.WriteU32BE(p.LastServerUpdate)
		w.WriteU64BE(p.PacketsSent)
		w.WriteU64BE(p.PacketsReceived)
		w.WriteU16BE(p.UnknownField)
	case NetStatusReply:
		w.WriteU16BE(uint16(OpcodeNetStatusReply))
		w.WriteU16BE(p.ClientTickCount)
		w.WriteU32BE(p.ServerTickCount)
		w.WriteU64BE(p.ClientPacketSent)
		w.WriteU64BE(p.ClientPacketReceived)
		w.WriteU64BE(p.ServerPacketSent)
		w.WriteU64BE(p.ServerPacketReceived)
		w.WriteU16BE(p.UnknownField)
	case Data:
		w.WriteU16BE(uint16(OpcodeData))
		w.WriteU16BE(p.Sequence)
		w.WriteBytes(p.Payload)
	case DataFragment:
		w.WriteU16BE(uint16(OpcodeDataFragment))
		w.WriteU16BE(p.Sequence)
		w.WriteBytes(p.Payload)
	case Ordered:
		w.WriteU16BE(uint16(OpcodeOrdered))
		w.WriteU16BE(p.Sequence)
		w.WriteBytes(p.Payload)
	case Ack:
		w.WriteU16BE(uint16(OpcodeAck))
		w.WriteU16BE(p.Sequence)
	case OutOfOrder:
		w.WriteU16BE(uint16(OpcodeOutOfOrder))
		w.WriteU16BE(p.Sequence)
	case Disconnect:
		w.WriteU16BE(uint16(OpcodeDisconnect))
		w.WriteU32BE(p.SessionID)
		w.WriteU16BE(disconnectReasonCode(p.Reason))
	case Ping:
		w.WriteU16BE(uint16(OpcodePing))
	case FatalError:
		w.WriteBytes(p.Raw)
		return nil
	case Unknown:
		w.WriteBytes(p.Raw)
		return nil
	case MultiPacket:
		w.WriteU16BE(uint16(OpcodeMultiPacket))
		if err := c.serializeSubPackets(w, p.SubPackets); err != nil {
			return err
		}
	case Group:
		w.WriteU16BE(uint16(OpcodeGroup))
		if err := c.serializeSubPackets(w, p.SubPackets); err != nil {
			return err
		}
	default:
		return &DeserializingError{Diagnostic: "unrecognized packet variant"}
	}

	if useCRC && carriesCRC(op) {
		body := w.Bytes()[start:]
		crcVal := crc.Truncate16(crc.Sum32(body, c.CRCSeed))
		w.WriteU8(byte(crcVal >> 8))
		w.WriteU8(byte(crcVal))
	}
	return nil
}

func (c *Codec) serializeSubPackets(w *bytesio.Writer, subs []Packet) error {
	for _, sub := range subs {
		var sw bytesio.Writer
		if err := c.serializeInto(&sw, sub, false); err != nil {
			return err
		}
		w.WriteVarLength(uint32(sw.Len()))
		w.WriteBytes(sw.Bytes())
	}
	return nil
}
