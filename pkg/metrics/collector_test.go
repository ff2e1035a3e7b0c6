package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/openverso/nrue-if/pkg/fapi"
)

func TestCollector_SlotTick(t *testing.T) {
	c := NewCollector()

	c.SlotTick(fapi.NewSfnSlot(72, 52))
	c.SlotTick(fapi.NewSfnSlot(72, 53))

	if c.GetSlotTicks() != 2 {
		t.Errorf("Expected 2 slot ticks, got %d", c.GetSlotTicks())
	}
	sfn, slot := c.GetCurrentSlot()
	if sfn != 72 || slot != 53 {
		t.Errorf("Expected current slot 72.53, got %d.%d", sfn, slot)
	}
}

func TestCollector_PduCounters(t *testing.T) {
	c := NewCollector()

	c.PduDispatched("MIB", false)
	c.PduDispatched("MIB", true)
	c.PduDispatched("DLSCH", false)

	if c.GetPdusDispatched("MIB") != 2 {
		t.Errorf("Expected 2 MIB dispatches, got %d", c.GetPdusDispatched("MIB"))
	}
	if c.GetPduFailures("MIB") != 1 {
		t.Errorf("Expected 1 MIB failure, got %d", c.GetPduFailures("MIB"))
	}
	if c.GetPdusDispatched("DLSCH") != 1 {
		t.Errorf("Expected 1 DLSCH dispatch, got %d", c.GetPdusDispatched("DLSCH"))
	}
	if c.GetPdusDispatched("RAR") != 0 {
		t.Errorf("Expected 0 RAR dispatches, got %d", c.GetPdusDispatched("RAR"))
	}
}

func TestCollector_ConcurrentUpdates(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.DatagramReceived()
				c.SlotTick(fapi.NewSfnSlot(1, 1))
			}
		}()
	}
	wg.Wait()

	if c.GetDatagramsReceived() != 1000 {
		t.Errorf("Expected 1000 datagrams, got %d", c.GetDatagramsReceived())
	}
	if c.GetSlotTicks() != 1000 {
		t.Errorf("Expected 1000 ticks, got %d", c.GetSlotTicks())
	}
}

func TestPrometheusHandler_Output(t *testing.T) {
	c := NewCollector()
	c.SlotTick(fapi.NewSfnSlot(10, 5))
	c.DatagramTruncated()
	c.PduDispatched("RAR", false)
	c.ScheduledResponse()

	handler := NewPrometheusHandler(c)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	checks := []string{
		"nrue_slot_ticks_total 1",
		"nrue_current_sfn 10",
		"nrue_current_slot 5",
		"nrue_datagrams_truncated_total 1",
		`nrue_pdus_dispatched_total{kind="RAR"} 1`,
		"nrue_scheduled_responses_total 1",
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("Metrics output missing %q", want)
		}
	}
}
