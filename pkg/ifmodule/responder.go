package ifmodule

import (
	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/logger"
)

// Responder is the scheduled-response capability bound to a module at
// creation time. The local variant applies the response to the in-process
// PHY; the stub variant is bound in standalone mode, where responses are
// staged over the transport instead of applied to local hardware.
type Responder interface {
	Deliver(resp *fapi.ScheduledResponse) error
}

// PHYResponder delivers scheduled responses to the local PHY hook
type PHYResponder struct {
	deliver func(resp *fapi.ScheduledResponse) error
}

// NewPHYResponder wraps the PHY-facing delivery hook
func NewPHYResponder(deliver func(resp *fapi.ScheduledResponse) error) *PHYResponder {
	return &PHYResponder{deliver: deliver}
}

// Deliver applies the response to the local PHY
func (r *PHYResponder) Deliver(resp *fapi.ScheduledResponse) error {
	return r.deliver(resp)
}

// StubResponder discards scheduled responses. Bound in standalone mode,
// where no local PHY exists and a delivery into it would dangle.
type StubResponder struct {
	log *logger.Logger

	delivered uint64
}

// NewStubResponder creates the standalone-mode response stub
func NewStubResponder(log *logger.Logger) *StubResponder {
	return &StubResponder{log: log.WithComponent("ifmodule.stub")}
}

// Deliver logs and drops the response
func (r *StubResponder) Deliver(resp *fapi.ScheduledResponse) error {
	r.delivered++
	r.log.Debug("Scheduled response dropped by standalone stub",
		logger.Uint32("module_id", resp.ModuleID),
		logger.Uint16("frame", resp.Frame),
		logger.Uint16("slot", uint16(resp.Slot)))
	return nil
}

// Delivered returns how many responses the stub has absorbed
func (r *StubResponder) Delivered() uint64 {
	return r.delivered
}
