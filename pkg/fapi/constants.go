package fapi

// P7 message type identifiers (SCF FAPI numbering)
const (
	MsgDLTTIRequest   uint16 = 0x80
	MsgULTTIRequest   uint16 = 0x81
	MsgSlotIndication uint16 = 0x82
	MsgULDCIRequest   uint16 = 0x83
	MsgTxDataRequest  uint16 = 0x84
	MsgRachIndication uint16 = 0x89
)

// Size constants (in bytes)
const (
	P7HeaderSize         = 16   // Fixed P7 message header
	SfnSlotSize          = 2    // Packed (frame,slot) slot tick
	MaxPackedMessageSize = 8192 // Upper bound for any packed P7 message
)

// Downlink receive-indication PDU kinds. The shift position of each kind in
// the dispatch outcome mask is the kind value itself.
const (
	RxPduTypeMIB   uint8 = 0x01
	RxPduTypeSIB   uint8 = 0x02
	RxPduTypeDLSCH uint8 = 0x03
	RxPduTypeRAR   uint8 = 0x04
)

// DCIIndicationTag is the outcome-mask position for DCI indication results.
const DCIIndicationTag uint8 = 0x05

// DL_TTI.request PDU types carried in the PDU list
const (
	DLTTIPduTypePDCCH uint16 = 0
	DLTTIPduTypePDSCH uint16 = 1
	DLTTIPduTypeCSIRS uint16 = 2
	DLTTIPduTypeSSB   uint16 = 3
)

// SsbRsrpPlaceholder is stamped into relayed SSB PDUs in standalone mode,
// where no local PHY exists to measure the real value.
const SsbRsrpPlaceholder uint16 = 60

var rxPduTypeNames = []string{"MIB", "SIB", "DLSCH", "RAR", "DCI"}

// RxPduTypeName returns a printable name for a receive-indication PDU kind
func RxPduTypeName(pduType uint8) string {
	idx := int(pduType) - 1
	if idx < 0 || idx >= len(rxPduTypeNames) {
		return "UNKNOWN"
	}
	return rxPduTypeNames[idx]
}
