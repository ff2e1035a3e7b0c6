package ifmodule

import (
	"fmt"

	"github.com/openverso/nrue-if/pkg/logger"
	"github.com/openverso/nrue-if/pkg/mac"
)

// DefaultCapacity bounds the number of interface modules per process
const DefaultCapacity = 100

// Options wires a module's collaborators at creation time
type Options struct {
	Mode      Mode
	CCMask    uint32
	Handler   mac.Handler
	Scheduler mac.Scheduler
	PhyConfig PhyConfigFunc

	// OnDispatch observes per-PDU dispatch outcomes. Optional.
	OnDispatch DispatchFunc

	// Responder is required in ModeLocal. In ModeStandalone it is ignored
	// and replaced by the stub.
	Responder Responder
}

// Registry is a bounded table of interface modules indexed by module id.
// Lookups take no locks: the table is append-only during normal operation
// and the surrounding system guarantees creation/destruction never races
// with dispatch.
type Registry struct {
	capacity int
	modules  []*Module
	log      *logger.Logger
}

// NewRegistry creates a registry with the given capacity. A non-positive
// capacity falls back to DefaultCapacity.
func NewRegistry(capacity int, log *logger.Logger) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		modules:  make([]*Module, capacity),
		log:      log.WithComponent("ifmodule"),
	}
}

// Capacity returns the fixed module-id bound
func (r *Registry) Capacity() int {
	return r.capacity
}

// Create allocates and wires the module for moduleID, or returns the
// existing handle unchanged: a second create on a populated id is a no-op.
// An out-of-range id is a configuration defect; the caller is expected to
// treat the error as fatal.
func (r *Registry) Create(moduleID uint32, opts Options) (*Module, error) {
	if int(moduleID) >= r.capacity {
		return nil, fmt.Errorf("module id %d out of range (capacity %d)", moduleID, r.capacity)
	}

	if existing := r.modules[moduleID]; existing != nil {
		return existing, nil
	}

	if opts.Handler == nil {
		return nil, fmt.Errorf("module %d: no MAC handler", moduleID)
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("module %d: no MAC scheduler", moduleID)
	}
	if opts.PhyConfig == nil {
		return nil, fmt.Errorf("module %d: no PHY config hook", moduleID)
	}

	responder := opts.Responder
	if opts.Mode == ModeStandalone {
		responder = NewStubResponder(r.log)
	} else if responder == nil {
		return nil, fmt.Errorf("module %d: no scheduled-response responder", moduleID)
	}

	m := &Module{
		ID:         moduleID,
		CCMask:     opts.CCMask,
		mode:       opts.Mode,
		handler:    opts.Handler,
		scheduler:  opts.Scheduler,
		phyConfig:  opts.PhyConfig,
		responder:  responder,
		onDispatch: opts.OnDispatch,
		log:        r.log,
	}
	r.modules[moduleID] = m

	r.log.Info("Interface module created",
		logger.Uint32("module_id", moduleID),
		logger.Bool("standalone", opts.Mode == ModeStandalone))

	return m, nil
}

// Get returns the module for moduleID by direct index, or nil when absent
// or out of range
func (r *Registry) Get(moduleID uint32) *Module {
	if int(moduleID) >= r.capacity {
		return nil
	}
	return r.modules[moduleID]
}

// Destroy releases the module for moduleID. Destroying an absent or
// out-of-range id is a no-op.
func (r *Registry) Destroy(moduleID uint32) {
	if int(moduleID) >= r.capacity || r.modules[moduleID] == nil {
		return
	}
	r.modules[moduleID] = nil
	r.log.Info("Interface module destroyed", logger.Uint32("module_id", moduleID))
}
