package ifmodule

import (
	"bytes"
	"testing"

	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/logger"
	"github.com/openverso/nrue-if/pkg/mac"
)

// mockMAC implements mac.Handler and mac.Scheduler, recording every call
// and returning queued results
type mockMAC struct {
	mibResults []int
	sibResults []int
	sduResults []int
	dciResults []int

	mibCalls  int
	sibCalls  int
	sduCalls  []int // pdu indices passed to DeliverSDU
	sduBatch  *fapi.DownlinkIndication
	dciCalls  int
	runDL     int // scheduler passes with a downlink batch
	runUL     int // scheduler passes with an uplink indication
	prachArgs []fapi.UplinkIndication

	ulSlotMask uint64
	state      mac.ConnectionState
}

func popResult(queue *[]int) int {
	if len(*queue) == 0 {
		return 0
	}
	ret := (*queue)[0]
	*queue = (*queue)[1:]
	return ret
}

func (m *mockMAC) DecodeMIB(moduleID uint32, ccID int, gnbIndex uint32, pdu *fapi.RxPdu) int {
	m.mibCalls++
	return popResult(&m.mibResults)
}

func (m *mockMAC) DecodeSIB(moduleID uint32, ccID int, gnbIndex uint32, pdu *fapi.RxPdu) int {
	m.sibCalls++
	return popResult(&m.sibResults)
}

func (m *mockMAC) DeliverSDU(dl *fapi.DownlinkIndication, pduIndex int) int {
	m.sduCalls = append(m.sduCalls, pduIndex)
	m.sduBatch = dl
	return popResult(&m.sduResults)
}

func (m *mockMAC) ProcessDCI(moduleID uint32, ccID int, gnbIndex uint32, frame uint16, slot uint8, dci *fapi.DCIPdu) int {
	m.dciCalls++
	return popResult(&m.dciResults)
}

func (m *mockMAC) Run(dl *fapi.DownlinkIndication, ul *fapi.UplinkIndication) mac.ConnectionState {
	if dl != nil {
		m.runDL++
	}
	if ul != nil {
		m.runUL++
	}
	return m.state
}

func (m *mockMAC) SchedulePRACH(moduleID uint32, frameTx uint16, slotTx uint8, threadID int) {
	m.prachArgs = append(m.prachArgs, fapi.UplinkIndication{
		ModuleID: moduleID, FrameTx: frameTx, SlotTx: slotTx, ThreadID: threadID,
	})
}

func (m *mockMAC) IsULSlot(slot uint8) bool {
	return m.ulSlotMask&(1<<slot) != 0
}

func (m *mockMAC) DLConfig(moduleID uint32) *fapi.DLConfigRequest {
	return &fapi.DLConfigRequest{SFN: 1, Slot: 2}
}

// recordResponder captures delivered scheduled responses
type recordResponder struct {
	responses []*fapi.ScheduledResponse
}

func (r *recordResponder) Deliver(resp *fapi.ScheduledResponse) error {
	r.responses = append(r.responses, resp)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: &bytes.Buffer{}})
}

func testOptions(mm *mockMAC, responder Responder) Options {
	return Options{
		Mode:      ModeLocal,
		Handler:   mm,
		Scheduler: mm,
		PhyConfig: func(cfg *PhyConfig) {},
		Responder: responder,
	}
}

func TestRegistry_Create_Idempotent(t *testing.T) {
	reg := NewRegistry(4, testLogger())
	mm := &mockMAC{}

	first, err := reg.Create(2, testOptions(mm, &recordResponder{}))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A second create on a populated id must return the same handle and
	// perform no re-initialization
	second, err := reg.Create(2, testOptions(&mockMAC{}, &recordResponder{}))
	if err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if first != second {
		t.Error("Expected second create to return the existing handle")
	}
	if second.handler != mac.Handler(mm) {
		t.Error("Second create replaced the module's collaborators")
	}
}

func TestRegistry_Create_OutOfRange(t *testing.T) {
	reg := NewRegistry(4, testLogger())

	if _, err := reg.Create(4, testOptions(&mockMAC{}, &recordResponder{})); err == nil {
		t.Error("Expected error for module id at capacity")
	}
	if _, err := reg.Create(1000, testOptions(&mockMAC{}, &recordResponder{})); err == nil {
		t.Error("Expected error for module id far out of range")
	}
	if reg.Get(4) != nil {
		t.Error("Out-of-range create must not write a module")
	}
}

func TestRegistry_Create_MissingCollaborators(t *testing.T) {
	reg := NewRegistry(4, testLogger())
	mm := &mockMAC{}

	tests := []struct {
		name string
		opts Options
	}{
		{"No handler", Options{Mode: ModeLocal, Scheduler: mm, PhyConfig: func(*PhyConfig) {}, Responder: &recordResponder{}}},
		{"No scheduler", Options{Mode: ModeLocal, Handler: mm, PhyConfig: func(*PhyConfig) {}, Responder: &recordResponder{}}},
		{"No PHY config hook", Options{Mode: ModeLocal, Handler: mm, Scheduler: mm, Responder: &recordResponder{}}},
		{"No responder in local mode", Options{Mode: ModeLocal, Handler: mm, Scheduler: mm, PhyConfig: func(*PhyConfig) {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := reg.Create(0, tt.opts); err == nil {
				t.Error("Expected wiring error")
			}
		})
	}
}

func TestRegistry_StandaloneBindsStub(t *testing.T) {
	reg := NewRegistry(4, testLogger())
	mm := &mockMAC{}

	opts := testOptions(mm, &recordResponder{})
	opts.Mode = ModeStandalone

	m, err := reg.Create(0, opts)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Standalone mode must replace the local responder with the stub even
	// when one was supplied
	if _, ok := m.Responder().(*StubResponder); !ok {
		t.Errorf("Expected stub responder in standalone mode, got %T", m.Responder())
	}
}

func TestRegistry_Destroy(t *testing.T) {
	reg := NewRegistry(4, testLogger())
	mm := &mockMAC{}

	// Destroying an absent id is a no-op
	reg.Destroy(1)
	reg.Destroy(999)

	first, err := reg.Create(1, testOptions(mm, &recordResponder{}))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reg.Destroy(1)
	if reg.Get(1) != nil {
		t.Error("Expected module released after destroy")
	}

	// Create after destroy allocates a fresh record
	second, err := reg.Create(1, testOptions(&mockMAC{}, &recordResponder{}))
	if err != nil {
		t.Fatalf("Create after destroy failed: %v", err)
	}
	if first == second {
		t.Error("Expected a new handle after destroy")
	}
}

func TestRegistry_Get_OutOfRange(t *testing.T) {
	reg := NewRegistry(4, testLogger())
	if reg.Get(100) != nil {
		t.Error("Expected nil for out-of-range lookup")
	}
}
