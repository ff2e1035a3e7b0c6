package mac

import (
	"sync"

	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/logger"
)

// Instance is a minimal MAC implementation of Handler and Scheduler. It
// validates and counts PDUs and keeps the rolling downlink configuration,
// but carries no resource-allocation or HARQ logic; a full scheduler plugs
// in behind the same interfaces.
type Instance struct {
	log *logger.Logger

	// ulSlotMask marks uplink-capable slots, one bit per slot index
	ulSlotMask uint64

	mu       sync.Mutex
	dlConfig fapi.DLConfigRequest
	state    ConnectionState

	mibDecoded   uint64
	sibDecoded   uint64
	sdusReceived uint64
	dcisHandled  uint64
	prachRuns    uint64
}

// NewInstance creates a MAC instance. ulSlotMask has one bit per slot index;
// a zero mask means no slot is uplink-capable.
func NewInstance(ulSlotMask uint64, log *logger.Logger) *Instance {
	return &Instance{
		log:        log.WithComponent("mac"),
		ulSlotMask: ulSlotMask,
		state:      ConnectionOK,
	}
}

// DecodeMIB decodes a broadcast channel payload. The MIB is a fixed 3-byte
// payload; anything else is a decode failure.
func (m *Instance) DecodeMIB(moduleID uint32, ccID int, gnbIndex uint32, pdu *fapi.RxPdu) int {
	if len(pdu.PDU) != 3 {
		m.log.Warn("MIB payload has wrong size",
			logger.Uint32("module_id", moduleID),
			logger.Int("size", len(pdu.PDU)))
		return -1
	}

	m.mu.Lock()
	m.mibDecoded++
	m.mu.Unlock()

	m.log.Debug("Decoded MIB",
		logger.Uint32("module_id", moduleID),
		logger.Uint32("ssb_index", pdu.SsbIndex),
		logger.Uint16("cell_id", pdu.CellID))
	return 0
}

// DecodeSIB decodes a broadcast shared-channel payload
func (m *Instance) DecodeSIB(moduleID uint32, ccID int, gnbIndex uint32, pdu *fapi.RxPdu) int {
	if len(pdu.PDU) == 0 {
		m.log.Warn("Empty SIB payload", logger.Uint32("module_id", moduleID))
		return -1
	}

	m.mu.Lock()
	m.sibDecoded++
	m.mu.Unlock()

	m.log.Debug("Decoded SIB",
		logger.Uint32("module_id", moduleID),
		logger.Uint32("sibs_mask", pdu.SibsMask))
	return 0
}

// DeliverSDU hands a DLSCH or RAR payload to MAC. The SDU is always
// processed because data and timing-advance updates ride on it.
func (m *Instance) DeliverSDU(dl *fapi.DownlinkIndication, pduIndex int) int {
	if pduIndex < 0 || pduIndex >= len(dl.RxInd) {
		return -1
	}

	m.mu.Lock()
	m.sdusReceived++
	m.mu.Unlock()

	m.log.Debug("Delivered downlink SDU",
		logger.Uint32("module_id", dl.ModuleID),
		logger.String("kind", fapi.RxPduTypeName(dl.RxInd[pduIndex].PduType)),
		logger.Int("size", len(dl.RxInd[pduIndex].PDU)))
	return 0
}

// ProcessDCI handles one DCI descriptor and refreshes the downlink
// configuration it implies
func (m *Instance) ProcessDCI(moduleID uint32, ccID int, gnbIndex uint32, frame uint16, slot uint8, dci *fapi.DCIPdu) int {
	if dci.PayloadBits == 0 {
		m.log.Warn("DCI with empty payload",
			logger.Uint32("module_id", moduleID),
			logger.Uint16("rnti", dci.RNTI))
		return -1
	}

	m.mu.Lock()
	m.dcisHandled++
	m.dlConfig.ConfigList = append(m.dlConfig.ConfigList, fapi.DLConfigPdu{
		PduType: dci.DCIFormat,
		RNTI:    dci.RNTI,
	})
	m.dlConfig.NumConfig = len(m.dlConfig.ConfigList)
	m.mu.Unlock()

	return 0
}

// Run performs one scheduling pass and advances the downlink configuration
// to the indicated slot
func (m *Instance) Run(dl *fapi.DownlinkIndication, ul *fapi.UplinkIndication) ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case ul != nil:
		m.dlConfig.SFN = ul.FrameTx
		m.dlConfig.Slot = ul.SlotTx
	case dl != nil:
		m.dlConfig.SFN = dl.Frame
		m.dlConfig.Slot = dl.Slot
	}
	m.dlConfig.ConfigList = nil
	m.dlConfig.NumConfig = 0

	return m.state
}

// SchedulePRACH schedules random-access transmission for an uplink slot
func (m *Instance) SchedulePRACH(moduleID uint32, frameTx uint16, slotTx uint8, threadID int) {
	m.mu.Lock()
	m.prachRuns++
	m.mu.Unlock()

	m.log.Debug("PRACH scheduling pass",
		logger.Uint32("module_id", moduleID),
		logger.Uint16("frame_tx", frameTx),
		logger.Uint16("slot_tx", uint16(slotTx)),
		logger.Int("thread_id", threadID))
}

// IsULSlot reports whether a slot is uplink-capable
func (m *Instance) IsULSlot(slot uint8) bool {
	if slot > 63 {
		return false
	}
	return m.ulSlotMask&(1<<slot) != 0
}

// DLConfig returns a copy of the module's current downlink configuration
func (m *Instance) DLConfig(moduleID uint32) *fapi.DLConfigRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.dlConfig
	cfg.ConfigList = append([]fapi.DLConfigPdu(nil), m.dlConfig.ConfigList...)
	return &cfg
}

// SetState overrides the connection-state classification returned by Run
func (m *Instance) SetState(state ConnectionState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// Stats returns decode/delivery counters
func (m *Instance) Stats() (mib, sib, sdus, dcis, prach uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mibDecoded, m.sibDecoded, m.sdusReceived, m.dcisHandled, m.prachRuns
}
