package fapi

// DCIPdu is one decoded downlink control information descriptor handed from
// PHY to MAC
type DCIPdu struct {
	RNTI        uint16
	DCIFormat   uint8
	PayloadBits uint16
	Payload     []byte
}

// RxPdu is one received downlink payload, tagged with its PDU kind. The
// meta fields are populated per kind: MIB entries carry the SSB fields, SIB
// entries the SibsMask, DLSCH/RAR entries only the raw PDU bytes.
type RxPdu struct {
	PduType uint8
	PDU     []byte

	// MIB
	AdditionalBits uint8
	SsbIndex       uint32
	SsbLength      uint32
	CellID         uint16

	// SIB
	SibsMask uint32

	// DLSCH / RAR
	HarqPid uint8
	Ack     bool
}

// DownlinkIndication is everything PHY learned in one slot for one module.
// The DCIInd and RxInd slices are owned by the producer; the dispatcher
// clears the references after consuming them so a stale batch cannot be
// redispatched.
type DownlinkIndication struct {
	ModuleID uint32
	GnbIndex uint32
	CCID     int
	Frame    uint16
	Slot     uint8
	ThreadID int

	DCIInd []DCIPdu
	RxInd  []RxPdu
}

// UplinkIndication carries the transmit-slot timing for one scheduling tick.
// It is transient: one per slot, never retained.
type UplinkIndication struct {
	ModuleID uint32
	GnbIndex uint32
	CCID     int
	Frame    uint16
	Slot     uint8
	FrameTx  uint16
	SlotTx   uint8
	ThreadID int
}

// DLConfigRequest tells PHY where to listen for the next DCI
type DLConfigRequest struct {
	SFN        uint16
	Slot       uint8
	NumConfig  int
	ConfigList []DLConfigPdu
}

// DLConfigPdu is one downlink reception configuration entry
type DLConfigPdu struct {
	PduType    uint8
	RNTI       uint16
	SearchSpce uint8
}

// ULConfigRequest tells PHY what to transmit
type ULConfigRequest struct {
	SFN        uint16
	Slot       uint8
	NumPdus    int
	ConfigList []ULConfigPdu
}

// ULConfigPdu is one uplink transmission configuration entry
type ULConfigPdu struct {
	PduType uint8
	RNTI    uint16
}

// ScheduledResponse aggregates the configuration updates handed back to PHY
// after a successful DCI indication. Built fresh per delivery, never reused.
type ScheduledResponse struct {
	ModuleID uint32
	CCID     int
	Frame    uint16
	Slot     uint8
	ThreadID int

	DLConfig *DLConfigRequest
	ULConfig *ULConfigRequest
	TxData   [][]byte
}
