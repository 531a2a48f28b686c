package soe

// Packet is the closed, tagged union of SOE datagrams (spec.md §9: "an
// implementation should represent packet kinds as a closed, tagged
// union ... and dispatch structurally"). Each concrete type below
// implements it; a type switch on the concrete type is the intended
// way to consume a parsed Packet.
type Packet interface {
	Opcode() Opcode
}

// SessionRequest is sent by the client to begin a session.
type SessionRequest struct {
	ProtocolVersion uint32
	SessionID       uint32
	UDPLength       uint32
	Protocol        string
}

func (SessionRequest) Opcode() Opcode { return OpcodeSessionRequest }

// SessionReply answers a SessionRequest, negotiating CRC and
// encryption parameters. The trailing constant field (always 3 on the
// wire) has no documented meaning (spec.md §9) and is preserved but not
// exposed as a settable field.
type SessionReply struct {
	SessionID     uint32
	CRCSeed       uint32
	CRCLength     uint8
	EncryptMethod uint16
	UDPLength     uint32
}

func (SessionReply) Opcode() Opcode { return OpcodeSessionReply }

// NetStatusRequest carries client-side network health counters.
type NetStatusRequest struct {
	ClientTickCount   uint16
	LastClientUpdate  uint32
	AverageUpdate     uint32
	ShortestUpdate    uint32
	LongestUpdate     uint32
	LastServerUpdate  uint32
	PacketsSent       uint64
	PacketsReceived   uint64
	UnknownField      uint16
}

func (NetStatusRequest) Opcode() Opcode { return OpcodeNetStatusReq }

// NetStatusReply answers a NetStatusRequest with server-side counters.
type NetStatusReply struct {
	ClientTickCount       uint16
	ServerTickCount       uint32
	ClientPacketSent      uint64
	ClientPacketReceived  uint64
	ServerPacketSent      uint64
	ServerPacketReceived  uint64
	UnknownField          uint16
}

func (NetStatusReply) Opcode() Opcode { return OpcodeNetStatusReply }

// Data carries an opaque, reliably-sequenced application payload.
type Data struct {
	Sequence uint16
	Payload  []byte
}

func (Data) Opcode() Opcode { return OpcodeData }

// DataFragment carries one fragment of a payload too large for a
// single datagram; reassembly is an application-layer concern.
type DataFragment struct {
	Sequence uint16
	Payload  []byte
}

func (DataFragment) Opcode() Opcode { return OpcodeDataFragment }

// Ordered carries a sequenced payload similar to Data but under the
// Ordered opcode used by some protocol revisions.
type Ordered struct {
	Sequence uint16
	Payload  []byte
}

func (Ordered) Opcode() Opcode { return OpcodeOrdered }

// Ack acknowledges receipt of sequence.
type Ack struct {
	Sequence uint16
}

func (Ack) Opcode() Opcode { return OpcodeAck }

// OutOfOrder acknowledges a datagram received out of sequence.
type OutOfOrder struct {
	Sequence uint16
}

func (OutOfOrder) Opcode() Opcode { return OpcodeOutOfOrder }

// Disconnect announces session termination. Reason is resolved against
// the fixed dictionary in spec.md §6; an unrecognized wire value maps
// to "unknown".
type Disconnect struct {
	SessionID uint32
	Reason    string
}

func (Disconnect) Opcode() Opcode { return OpcodeDisconnect }

// Ping is a fixed two-byte keepalive with no payload.
type Ping struct{}

func (Ping) Opcode() Opcode { return OpcodePing }

// MultiPacket bundles several SOE datagrams into one, each length
// -prefixed (spec.md §4.2/§6). Sub-packets share the outer datagram's
// CRC; the codec parses sub-packets with CRC disabled.
type MultiPacket struct {
	SubPackets []Packet
}

func (MultiPacket) Opcode() Opcode { return OpcodeMultiPacket }

// Group is wire-compatible with MultiPacket under a distinct opcode.
type Group struct {
	SubPackets []Packet
}

func (Group) Opcode() Opcode { return OpcodeGroup }

// FatalError retains the raw bytes of an opcode 0x1D datagram; its
// payload layout is not specified beyond "retained raw bytes"
// (spec.md §3).
type FatalError struct {
	Raw []byte
}

func (FatalError) Opcode() Opcode { return OpcodeFatalError }

// Unknown preserves the raw bytes of a datagram whose opcode is not in
// the taxonomy, or that was too short to carry even an opcode. Unknown
// opcodes are not errors: they let upper layers handle protocol
// extensions (spec.md §7).
type Unknown struct {
	RawOpcode Opcode
	Raw       []byte
}

func (Unknown) Opcode() Opcode { return OpcodeFatalError + 1 } // sentinel, not a real wire opcode
