package ifmodule

import (
	"testing"

	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/mac"
)

func TestUplinkIndication_ULSlotSchedulesPRACH(t *testing.T) {
	mm := &mockMAC{ulSlotMask: 1 << 19}
	m := newTestModule(t, mm, &recordResponder{})

	ul := &fapi.UplinkIndication{
		ModuleID: 0,
		Frame:    100,
		Slot:     17,
		FrameTx:  100,
		SlotTx:   19,
		ThreadID: 1,
	}

	state := m.UplinkIndication(ul)

	if state != mac.ConnectionOK {
		t.Errorf("Expected connection ok, got %v", state)
	}
	if mm.runUL != 1 {
		t.Errorf("Expected one scheduler pass, got %d", mm.runUL)
	}
	if len(mm.prachArgs) != 1 {
		t.Fatalf("Expected PRACH scheduling for UL slot, got %d calls", len(mm.prachArgs))
	}
	got := mm.prachArgs[0]
	if got.FrameTx != 100 || got.SlotTx != 19 || got.ThreadID != 1 {
		t.Errorf("PRACH scheduled with wrong arguments: %+v", got)
	}

	if m.CurrentFrame != 100 || m.CurrentSlot != 17 {
		t.Errorf("Expected slot tracking updated, got frame %d slot %d", m.CurrentFrame, m.CurrentSlot)
	}
}

func TestUplinkIndication_NonULSlotSkipsPRACH(t *testing.T) {
	mm := &mockMAC{ulSlotMask: 1 << 19}
	m := newTestModule(t, mm, &recordResponder{})

	ul := &fapi.UplinkIndication{FrameTx: 100, SlotTx: 3}

	m.UplinkIndication(ul)

	if mm.runUL != 1 {
		t.Errorf("Expected one scheduler pass, got %d", mm.runUL)
	}
	if len(mm.prachArgs) != 0 {
		t.Errorf("Expected no PRACH scheduling for non-UL slot, got %d calls", len(mm.prachArgs))
	}
}

func TestUplinkIndication_StateObservedNotBranched(t *testing.T) {
	// Every classification takes the same dispatch path; the state is
	// returned for collaborators to act on
	states := []mac.ConnectionState{
		mac.ConnectionOK, mac.ConnectionLost, mac.PhyResync, mac.HandoverPRACH,
	}

	for _, want := range states {
		t.Run(want.String(), func(t *testing.T) {
			mm := &mockMAC{state: want, ulSlotMask: 1 << 5}
			m := newTestModule(t, mm, &recordResponder{})

			got := m.UplinkIndication(&fapi.UplinkIndication{SlotTx: 5})

			if got != want {
				t.Errorf("Expected state %v, got %v", want, got)
			}
			if len(mm.prachArgs) != 1 {
				t.Errorf("Expected PRACH scheduling regardless of state, got %d calls", len(mm.prachArgs))
			}
		})
	}
}
