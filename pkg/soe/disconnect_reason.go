package soe

// disconnectReasons maps the wire reason code to its canonical name per
// spec.md §6. Any code not present here resolves to "unknown".
var disconnectReasons = map[uint16]string{
	0:  "IcmpError",
	1:  "Timeout",
	2:  "None",
	3:  "OtherSideTerminated",
	4:  "ManagerDeleted",
	5:  "ConnectFail",
	6:  "Application",
	7:  "UnreachableConnection",
	8:  "UnacknowledgedTimeout",
	9:  "NewConnectionAttempt",
	10: "ConnectionRefused",
	11: "ConnectError",
	12: "ConnectingToSelf",
	13: "ReliableOverflow",
	14: "ApplicationReleased",
	15: "CorruptPacket",
	16: "ProtocolMismatch",
}

// disconnectReasonCodes is the inverse of disconnectReasons, used by the
// serializer to turn a name back into its wire code. Names outside the
// dictionary (including "unknown") serialize to code 0xFFFF, a value no
// real reason occupies.
var disconnectReasonCodes = func() map[string]uint16 {
	m := make(map[string]uint16, len(disconnectReasons))
	for code, name := range disconnectReasons {
		m[name] = code
	}
	return m
}()

func disconnectReasonName(code uint16) string {
	if name, ok := disconnectReasons[code]; ok {
		return name
	}
	return "unknown"
}

func disconnectReasonCode(name string) uint16 {
	if code, ok := disconnectReasonCodes[name]; ok {
		return code
	}
	return 0xFFFF
}
