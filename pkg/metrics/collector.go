package metrics

import (
	"sync"

	"github.com/openverso/nrue-if/pkg/fapi"
)

// Collector collects interface-layer metrics
type Collector struct {
	mu sync.RWMutex

	// Slot timing
	slotTicks   uint64
	currentSfn  uint16
	currentSlot uint8

	// Transport
	datagramsReceived  uint64
	datagramsTruncated uint64
	unpackFailures     uint64
	measurementRelays  uint64
	rachIndsSent       uint64
	sendFailures       uint64

	// Dispatch
	pdusDispatched     map[string]uint64 // keyed by PDU kind name
	pduFailures        map[string]uint64
	scheduledResponses uint64
	schedulerPasses    uint64
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		pdusDispatched: make(map[string]uint64),
		pduFailures:    make(map[string]uint64),
	}
}

// SlotTick records a received slot tick
func (c *Collector) SlotTick(s fapi.SfnSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slotTicks++
	c.currentSfn = s.Sfn()
	c.currentSlot = s.Slot()
}

// DatagramReceived records one datagram arriving on the receive socket
func (c *Collector) DatagramReceived() {
	c.mu.Lock()
	c.datagramsReceived++
	c.mu.Unlock()
}

// DatagramTruncated records a dropped oversize datagram
func (c *Collector) DatagramTruncated() {
	c.mu.Lock()
	c.datagramsTruncated++
	c.mu.Unlock()
}

// UnpackFailure records a header or body unpack failure
func (c *Collector) UnpackFailure() {
	c.mu.Lock()
	c.unpackFailures++
	c.mu.Unlock()
}

// MeasurementRelayed records a forwarded measurement report
func (c *Collector) MeasurementRelayed() {
	c.mu.Lock()
	c.measurementRelays++
	c.mu.Unlock()
}

// RachIndicationSent records an outbound RACH.indication
func (c *Collector) RachIndicationSent() {
	c.mu.Lock()
	c.rachIndsSent++
	c.mu.Unlock()
}

// SendFailure records a failed transmit on the send socket
func (c *Collector) SendFailure() {
	c.mu.Lock()
	c.sendFailures++
	c.mu.Unlock()
}

// PduDispatched records one downlink PDU routed to a MAC handler
func (c *Collector) PduDispatched(kind string, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pdusDispatched[kind]++
	if failed {
		c.pduFailures[kind]++
	}
}

// ScheduledResponse records one response delivery to PHY
func (c *Collector) ScheduledResponse() {
	c.mu.Lock()
	c.scheduledResponses++
	c.mu.Unlock()
}

// SchedulerPass records one scheduler invocation
func (c *Collector) SchedulerPass() {
	c.mu.Lock()
	c.schedulerPasses++
	c.mu.Unlock()
}

// Getters

// GetSlotTicks returns the number of slot ticks received
func (c *Collector) GetSlotTicks() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slotTicks
}

// GetCurrentSlot returns the last observed (sfn, slot)
func (c *Collector) GetCurrentSlot() (uint16, uint8) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentSfn, c.currentSlot
}

// GetDatagramsReceived returns the number of datagrams received
func (c *Collector) GetDatagramsReceived() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.datagramsReceived
}

// GetDatagramsTruncated returns the number of oversize datagrams dropped
func (c *Collector) GetDatagramsTruncated() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.datagramsTruncated
}

// GetUnpackFailures returns the number of unpack failures
func (c *Collector) GetUnpackFailures() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unpackFailures
}

// GetMeasurementRelays returns the number of measurement reports relayed
func (c *Collector) GetMeasurementRelays() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.measurementRelays
}

// GetRachIndicationsSent returns the number of RACH indications sent
func (c *Collector) GetRachIndicationsSent() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rachIndsSent
}

// GetSendFailures returns the number of send failures
func (c *Collector) GetSendFailures() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sendFailures
}

// GetPdusDispatched returns the dispatched count for one PDU kind
func (c *Collector) GetPdusDispatched(kind string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pdusDispatched[kind]
}

// GetPduFailures returns the failed count for one PDU kind
func (c *Collector) GetPduFailures(kind string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pduFailures[kind]
}

// GetScheduledResponses returns the number of scheduled responses delivered
func (c *Collector) GetScheduledResponses() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scheduledResponses
}

// GetSchedulerPasses returns the number of scheduler invocations
func (c *Collector) GetSchedulerPasses() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.schedulerPasses
}
