package ifmodule

import (
	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/logger"
	"github.com/openverso/nrue-if/pkg/mac"
)

// UplinkIndication runs the scheduler for the indicated transmit slot and,
// when that slot is uplink-capable, additionally schedules random access.
// It must complete within the slot's uplink processing deadline; nothing is
// buffered or deferred here.
func (m *Module) UplinkIndication(ul *fapi.UplinkIndication) mac.ConnectionState {
	state := m.scheduler.Run(nil, ul)

	if m.scheduler.IsULSlot(ul.SlotTx) {
		m.scheduler.SchedulePRACH(ul.ModuleID, ul.FrameTx, ul.SlotTx, ul.ThreadID)
	}

	// The classification is observed here but handled by collaborators
	// outside this layer (RRC for loss/handover, PHY for resync).
	switch state {
	case mac.ConnectionOK:
	case mac.ConnectionLost:
		m.log.Warn("Scheduler reports connection lost",
			logger.Uint32("module_id", ul.ModuleID))
	case mac.PhyResync:
		m.log.Warn("Scheduler requests PHY resynchronization",
			logger.Uint32("module_id", ul.ModuleID))
	case mac.HandoverPRACH:
		m.log.Info("Scheduler requests handover via random access",
			logger.Uint32("module_id", ul.ModuleID))
	}

	m.CurrentFrame = ul.Frame
	m.CurrentSlot = ul.Slot

	return state
}
