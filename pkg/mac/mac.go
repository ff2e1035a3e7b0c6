package mac

import (
	"github.com/openverso/nrue-if/pkg/fapi"
)

// ConnectionState is the scheduler's classification of the radio link after
// a scheduling pass
type ConnectionState int

const (
	ConnectionOK ConnectionState = iota
	ConnectionLost
	PhyResync
	HandoverPRACH
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionOK:
		return "ok"
	case ConnectionLost:
		return "lost"
	case PhyResync:
		return "phy-resync"
	case HandoverPRACH:
		return "handover-prach"
	default:
		return "unknown"
	}
}

// Handler is the set of MAC decode/delivery entry points the downlink
// dispatcher routes into. Results follow the FAPI convention: negative means
// the PDU failed to decode and is recorded as a failure bit in the outcome
// mask, non-negative means success.
type Handler interface {
	// DecodeMIB decodes a broadcast channel payload (synchronization block)
	DecodeMIB(moduleID uint32, ccID int, gnbIndex uint32, pdu *fapi.RxPdu) int

	// DecodeSIB decodes a broadcast shared-channel payload (system information)
	DecodeSIB(moduleID uint32, ccID int, gnbIndex uint32, pdu *fapi.RxPdu) int

	// DeliverSDU hands a downlink shared-channel or random-access-response
	// payload to MAC. Both kinds route here.
	DeliverSDU(dl *fapi.DownlinkIndication, pduIndex int) int

	// ProcessDCI handles one downlink control information descriptor
	ProcessDCI(moduleID uint32, ccID int, gnbIndex uint32, frame uint16, slot uint8, dci *fapi.DCIPdu) int
}

// Scheduler drives the per-slot scheduling decisions of the MAC layer
type Scheduler interface {
	// Run performs one scheduling pass. Exactly one of dl/ul is non-nil:
	// a downlink batch with no PDUs triggers DCI-reception preparation, an
	// uplink indication triggers uplink-data scheduling.
	Run(dl *fapi.DownlinkIndication, ul *fapi.UplinkIndication) ConnectionState

	// SchedulePRACH schedules random-access transmission for an
	// uplink-capable slot
	SchedulePRACH(moduleID uint32, frameTx uint16, slotTx uint8, threadID int)

	// IsULSlot reports whether a slot is uplink-capable under the current
	// cell configuration
	IsULSlot(slot uint8) bool

	// DLConfig returns the module's current downlink reception configuration
	DLConfig(moduleID uint32) *fapi.DLConfigRequest
}
