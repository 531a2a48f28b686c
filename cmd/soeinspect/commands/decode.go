package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/soeframe/soeframe/internal/cliutil"
	"github.com/soeframe/soeframe/pkg/gateway"
	"github.com/soeframe/soeframe/pkg/metrics"
	"github.com/soeframe/soeframe/pkg/rc4transform"
	"github.com/soeframe/soeframe/pkg/soe"
	"github.com/spf13/cobra"
)

var (
	decodeNoCRC   bool
	decodeCRCSeed uint32
	decodeGateway bool
	decodeRC4Key  string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex-bytes>",
	Short: "Decode a raw SOE (optionally gateway-layered) datagram",
	Long: `decode parses a hex-encoded datagram through the SOE base protocol
codec and prints the resulting packet. With --gateway, the payload of a
Data/DataFragment/Ordered packet is parsed a second time through the
gateway protocol codec. With --rc4-key, the raw bytes are passed through
an RC4 stream transform before parsing begins -- the transform sits
outside the codec boundary, the same way a session's negotiated cipher
would be applied before handing bytes to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("decode: invalid hex input: %w", err)
		}

		if decodeRC4Key != "" {
			rc4, err := rc4transform.New([]byte(decodeRC4Key))
			if err != nil {
				return fmt.Errorf("decode: rc4 key: %w", err)
			}
			raw = rc4.Apply(raw)
		}

		useCRC, crcSeed := cfg.Codec.UseCRC, cfg.Codec.CRCSeed
		if cmd.Flags().Changed("no-crc") {
			useCRC = !decodeNoCRC
		}
		if cmd.Flags().Changed("crc-seed") {
			crcSeed = decodeCRCSeed
		}
		codec := soe.NewCodec(useCRC, crcSeed)
		codec.Metrics = metrics.NewCodecMetrics()
		pkt, err := codec.Parse(raw)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}

		table := cliutil.NewKVTable()
		table.Add("protocol", "soe")
		table.Add("opcode", pkt.Opcode().String())
		describeSOEPacket(table, pkt)
		cliutil.PrintTable(cmd.OutOrStdout(), table)

		if decodeGateway {
			payload := soePayload(pkt)
			if payload == nil {
				return fmt.Errorf("decode: --gateway requires a Data, DataFragment, or Ordered packet")
			}
			gwCodec := gateway.NewCodec()
			gwCodec.Metrics = codec.Metrics
			gwPkt, err := gwCodec.Parse(payload)
			if err != nil {
				var derr *soe.DeserializingError
				if errors.As(err, &derr) {
					// spec.md §4.3 permits returning the legacy
					// sentinel-framed bytes instead of a typed error;
					// surface both so --rc4-key/--gateway users can
					// diff against the original wire framing.
					return fmt.Errorf("decode: gateway: %s (legacy framing: %x)", derr.Diagnostic, derr.Bytes())
				}
				return fmt.Errorf("decode: gateway: %w", err)
			}
			gwTable := cliutil.NewKVTable()
			gwTable.Add("protocol", "gateway")
			gwTable.Add("opcode", gwPkt.GatewayOpcode().String())
			describeGatewayPacket(gwTable, gwPkt)
			cliutil.PrintTable(cmd.OutOrStdout(), gwTable)
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeNoCRC, "no-crc", false, "parse without expecting a trailing CRC")
	decodeCmd.Flags().Uint32Var(&decodeCRCSeed, "crc-seed", 0, "CRC seed negotiated for this session")
	decodeCmd.Flags().BoolVar(&decodeGateway, "gateway", false, "also decode the payload as a gateway packet")
	decodeCmd.Flags().StringVar(&decodeRC4Key, "rc4-key", "", "apply an RC4 stream transform before parsing")
}

// soePayload extracts the inner payload of packets that can carry a
// gateway datagram, or nil if pkt isn't one of those kinds.
func soePayload(pkt soe.Packet) []byte {
	switch p := pkt.(type) {
	case soe.Data:
		return p.Payload
	case soe.DataFragment:
		return p.Payload
	case soe.Ordered:
		return p.Payload
	default:
		return nil
	}
}

func describeSOEPacket(t *cliutil.KVTable, pkt soe.Packet) {
	switch p := pkt.(type) {
	case soe.SessionRequest:
		t.Add("protocol_version", strconv.FormatUint(uint64(p.ProtocolVersion), 10))
		t.Add("session_id", strconv.FormatUint(uint64(p.SessionID), 10))
		t.Add("udp_length", strconv.FormatUint(uint64(p.UDPLength), 10))
		t.Add("protocol", p.Protocol)
	case soe.SessionReply:
		t.Add("session_id", strconv.FormatUint(uint64(p.SessionID), 10))
		t.Add("crc_seed", strconv.FormatUint(uint64(p.CRCSeed), 10))
		t.Add("crc_length", strconv.FormatUint(uint64(p.CRCLength), 10))
		t.Add("encrypt_method", strconv.FormatUint(uint64(p.EncryptMethod), 10))
		t.Add("udp_length", strconv.FormatUint(uint64(p.UDPLength), 10))
	case soe.Data:
		t.Add("sequence", strconv.FormatUint(uint64(p.Sequence), 10))
		t.Add("payload_len", strconv.Itoa(len(p.Payload)))
	case soe.DataFragment:
		t.Add("sequence", strconv.FormatUint(uint64(p.Sequence), 10))
		t.Add("payload_len", strconv.Itoa(len(p.Payload)))
	case soe.Ordered:
		t.Add("sequence", strconv.FormatUint(uint64(p.Sequence), 10))
		t.Add("payload_len", strconv.Itoa(len(p.Payload)))
	case soe.Ack:
		t.Add("sequence", strconv.FormatUint(uint64(p.Sequence), 10))
	case soe.OutOfOrder:
		t.Add("sequence", strconv.FormatUint(uint64(p.Sequence), 10))
	case soe.Disconnect:
		t.Add("session_id", strconv.FormatUint(uint64(p.SessionID), 10))
		t.Add("reason", p.Reason)
	case soe.MultiPacket:
		t.Add("sub_packets", strconv.Itoa(len(p.SubPackets)))
	case soe.Group:
		t.Add("sub_packets", strconv.Itoa(len(p.SubPackets)))
	case soe.Unknown:
		t.Add("raw_opcode", strconv.FormatUint(uint64(p.RawOpcode), 16))
		t.Add("raw_len", strconv.Itoa(len(p.Raw)))
	}
}

func describeGatewayPacket(t *cliutil.KVTable, pkt gateway.Packet) {
	switch p := pkt.(type) {
	case gateway.LoginRequest:
		t.Add("character_id", strconv.FormatUint(p.CharacterID, 10))
		t.Add("ticket", p.Ticket)
		t.Add("client_protocol", p.ClientProtocol)
		t.Add("client_build", p.ClientBuild)
	case gateway.LoginReply:
		t.Add("logged_in", strconv.FormatBool(p.LoggedIn))
	case gateway.TunnelData:
		t.Add("channel", strconv.FormatUint(uint64(p.Channel), 10))
		t.Add("from_server", strconv.FormatBool(p.FromServer))
		t.Add("payload_len", strconv.Itoa(len(p.Payload)))
	case gateway.Unknown:
		t.Add("channel", strconv.FormatUint(uint64(p.Channel), 10))
		t.Add("raw_len", strconv.Itoa(len(p.Raw)))
	}
}
