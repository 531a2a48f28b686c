// Package soe implements the SOE base protocol: framing, CRC
// verification, and (de)serialization of the connection-oriented UDP
// packet family used by the client/server stack this library targets.
package soe

// Opcode identifies an SOE packet kind. Every SOE datagram begins with
// a 16-bit big-endian opcode.
type Opcode uint16

const (
	OpcodeSessionRequest  Opcode = 0x01
	OpcodeSessionReply    Opcode = 0x02
	OpcodeMultiPacket     Opcode = 0x03
	OpcodeDisconnect      Opcode = 0x05
	OpcodePing            Opcode = 0x06
	OpcodeNetStatusReq    Opcode = 0x07
	OpcodeNetStatusReply  Opcode = 0x08
	OpcodeData            Opcode = 0x09
	OpcodeDataFragment    Opcode = 0x0d
	OpcodeOutOfOrder      Opcode = 0x11
	OpcodeAck             Opcode = 0x15
	OpcodeGroup           Opcode = 0x19
	OpcodeOrdered         Opcode = 0x1B
	OpcodeFatalError      Opcode = 0x1D
)

// String returns the canonical name of the opcode, or "Unknown" for any
// value not in the taxonomy.
func (o Opcode) String() string {
	switch o {
	case OpcodeSessionRequest:
		return "SessionRequest"
	case OpcodeSessionReply:
		return "SessionReply"
	case OpcodeMultiPacket:
		return "MultiPacket"
	case OpcodeDisconnect:
		return "Disconnect"
	case OpcodePing:
		return "Ping"
	case OpcodeNetStatusReq:
		return "NetStatusRequest"
	case OpcodeNetStatusReply:
		return "NetStatusReply"
	case OpcodeData:
		return "Data"
	case OpcodeDataFragment:
		return "DataFragment"
	case OpcodeOutOfOrder:
		return "OutOfOrder"
	case OpcodeAck:
		return "Ack"
	case OpcodeGroup:
		return "Group"
	case OpcodeOrdered:
		return "Ordered"
	case OpcodeFatalError:
		return "FatalError"
	default:
		return "Unknown"
	}
}

// minSize is the minimum total datagram size (2-byte opcode included,
// CRC suffix excluded) for a packet carrying this opcode, per spec.md
// §3/§4.3. Disconnect is deliberately absent: it has its own robustness
// carve-out (see parseDisconnect) rather than going through the generic
// size gate. Ping/FatalError/Unknown have no documented minimum.
var minSize = map[Opcode]int{
	OpcodeSessionRequest: 14,
	OpcodeSessionReply:   21,
	OpcodeMultiPacket:    7,
	OpcodeGroup:          7,
	OpcodeNetStatusReq:   42,
	OpcodeNetStatusReply: 42,
	OpcodeData:           5,
	OpcodeDataFragment:   5,
	OpcodeOrdered:        5,
	OpcodeOutOfOrder:     4,
	OpcodeAck:            4,
}

// MinSize returns the opcode's minimum wire size and whether one is
// defined for it.
func MinSize(o Opcode) (int, bool) {
	n, ok := minSize[o]
	return n, ok
}

// fixedSize reports whether an opcode's minSize entry is also its exact
// size (SessionReply and both NetStatus packets carry no variable-
// length fields), as opposed to a floor that variable-length payloads
// may exceed.
func fixedSize(o Opcode) bool {
	switch o {
	case OpcodeSessionReply, OpcodeNetStatusReq, OpcodeNetStatusReply:
		return true
	default:
		return false
	}
}

// carriesCRC reports whether a datagram of this opcode has a 2-byte CRC
// suffix when the session's CRC flag is enabled.
//
// SessionRequest, SessionReply, Ping, and Disconnect never carry CRC
// regardless of the flag (spec.md §3 invariants, and they carry their
// own framing). NetStatusRequest/NetStatusReply are fixed-size packets
// validated by exact length rather than the CRC gate; spec.md §6's wire
// -format table lists them among the CRC-bearing opcodes, but §4.3's
// CRC-gate rule and the reference h1emu-core decoder both exclude them
// (NetStatus parsing checks exact length against the 42-byte payload
// and never reads a trailing CRC), so this follows §4.3 and the
// original decoder over §6's summary table — see DESIGN.md.
func carriesCRC(o Opcode) bool {
	switch o {
	case OpcodeSessionRequest, OpcodeSessionReply, OpcodePing, OpcodeDisconnect,
		OpcodeNetStatusReq, OpcodeNetStatusReply:
		return false
	default:
		return true
	}
}
