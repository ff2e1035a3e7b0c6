package ifmodule

import (
	"github.com/openverso/nrue-if/pkg/logger"
	"github.com/openverso/nrue-if/pkg/mac"
)

// Mode selects how scheduled responses reach PHY
type Mode int

const (
	// ModeLocal delivers scheduled responses to the in-process PHY hook
	ModeLocal Mode = iota
	// ModeStandalone runs against a remote PHY proxy; the local response
	// hook is a stub and responses travel over the transport's send path
	ModeStandalone
)

// PhyConfig carries the cell parameters handed to PHY at configuration time
type PhyConfig struct {
	ModuleID    uint32
	CCID        int
	PhysCellID  uint16
	DLFrequency uint64
	ULFrequency uint64
}

// PhyConfigFunc is the PHY-configuration request hook
type PhyConfigFunc func(cfg *PhyConfig)

// DispatchFunc observes each dispatched downlink PDU by kind name and
// handler outcome. Used for metrics; may be nil.
type DispatchFunc func(kind string, failed bool)

// Module is one radio instance's interface between PHY and MAC. It is
// created through the Registry, referenced by owning code only, and never
// copied.
type Module struct {
	ID           uint32
	CCMask       uint32
	CurrentFrame uint16
	CurrentSlot  uint8

	mode       Mode
	handler    mac.Handler
	scheduler  mac.Scheduler
	phyConfig  PhyConfigFunc
	responder  Responder
	onDispatch DispatchFunc
	log        *logger.Logger
}

func (m *Module) observe(kind string, failed bool) {
	if m.onDispatch != nil {
		m.onDispatch(kind, failed)
	}
}

// Mode returns the response-delivery mode the module was created with
func (m *Module) Mode() Mode {
	return m.mode
}

// Responder returns the scheduled-response capability bound at creation
func (m *Module) Responder() Responder {
	return m.responder
}

// RequestPhyConfig invokes the PHY-configuration hook
func (m *Module) RequestPhyConfig(cfg *PhyConfig) {
	cfg.ModuleID = m.ID
	m.phyConfig(cfg)
}
