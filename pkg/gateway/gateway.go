// Package gateway implements the thin gateway protocol layered on top
// of SOE Data payloads: a single header byte packing a 5-bit opcode
// and a 3-bit channel, followed by an opcode-specific body.
package gateway

// Opcode identifies a gateway packet kind.
type Opcode uint8

const (
	OpcodeLoginRequest          Opcode = 0x01
	OpcodeLoginReply            Opcode = 0x02
	OpcodeLogout                Opcode = 0x03
	OpcodeForceDisconnect       Opcode = 0x04
	OpcodeTunnelDataClient      Opcode = 0x05
	OpcodeTunnelDataServer      Opcode = 0x06
	OpcodeChannelIsRoutable     Opcode = 0x07
	OpcodeChannelIsNotRoutable  Opcode = 0x08
)

func (o Opcode) String() string {
	switch o {
	case OpcodeLoginRequest:
		return "LoginRequest"
	case OpcodeLoginReply:
		return "LoginReply"
	case OpcodeLogout:
		return "Logout"
	case OpcodeForceDisconnect:
		return "ForceDisconnect"
	case OpcodeTunnelDataClient:
		return "TunnelDataClient"
	case OpcodeTunnelDataServer:
		return "TunnelDataServer"
	case OpcodeChannelIsRoutable:
		return "ChannelIsRoutable"
	case OpcodeChannelIsNotRoutable:
		return "ChannelIsNotRoutable"
	default:
		return "Unknown"
	}
}

// packHeader builds the single header byte: channel in the high 3
// bits, opcode in the low 5.
func packHeader(opcode Opcode, channel uint8) byte {
	return byte(opcode&0x1f) | byte(channel<<5)
}

// unpackHeader splits a header byte into its opcode and channel.
func unpackHeader(b byte) (Opcode, uint8) {
	return Opcode(b & 0x1f), b >> 5
}

// Packet is the closed, tagged union of gateway messages.
type Packet interface {
	GatewayOpcode() Opcode
}

// LoginRequest authenticates a client against a character id and a
// ticket, reporting the connecting client's protocol and build
// strings.
type LoginRequest struct {
	CharacterID    uint64
	Ticket         string
	ClientProtocol string
	ClientBuild    string
}

func (LoginRequest) GatewayOpcode() Opcode { return OpcodeLoginRequest }

// LoginReply answers a LoginRequest.
type LoginReply struct {
	LoggedIn bool
}

func (LoginReply) GatewayOpcode() Opcode { return OpcodeLoginReply }

// Logout carries no payload.
type Logout struct{}

func (Logout) GatewayOpcode() Opcode { return OpcodeLogout }

// ForceDisconnect carries no payload.
type ForceDisconnect struct{}

func (ForceDisconnect) GatewayOpcode() Opcode { return OpcodeForceDisconnect }

// TunnelData carries an opaque payload routed over Channel. FromServer
// distinguishes the 0x06 (server-origin) opcode from 0x05
// (client-origin); both share the same wire shape otherwise.
type TunnelData struct {
	Channel    uint8
	Payload    []byte
	FromServer bool
}

func (t TunnelData) GatewayOpcode() Opcode {
	if t.FromServer {
		return OpcodeTunnelDataServer
	}
	return OpcodeTunnelDataClient
}

// ChannelIsRoutable carries no payload.
type ChannelIsRoutable struct{}

func (ChannelIsRoutable) GatewayOpcode() Opcode { return OpcodeChannelIsRoutable }

// ChannelIsNotRoutable carries no payload.
type ChannelIsNotRoutable struct{}

func (ChannelIsNotRoutable) GatewayOpcode() Opcode { return OpcodeChannelIsNotRoutable }

// Unknown preserves the raw bytes of a packet whose opcode is not in
// the taxonomy, along with the channel extracted from its header.
type Unknown struct {
	Channel uint8
	Raw     []byte
}

func (Unknown) GatewayOpcode() Opcode { return OpcodeChannelIsNotRoutable + 1 }
