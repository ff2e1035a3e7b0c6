package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/openverso/nrue-if/pkg/config"
	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/logger"
	"github.com/openverso/nrue-if/pkg/metrics"
)

// MessageKind classifies payloads handed to a MeasurementRelay
type MessageKind int

const (
	// KindRRCMeasurement is a DL_TTI.request re-encoded with populated
	// SSB measurement fields, destined for the legacy UE side.
	KindRRCMeasurement MessageKind = iota
)

// MeasurementRelay receives re-encoded PHY messages for delivery to the
// legacy UE stack. Implementations must not retain data after Forward
// returns.
type MeasurementRelay interface {
	Forward(data []byte, kind MessageKind) error
}

// Transport owns the UDP socket pair connecting a standalone UE to the
// remote PHY proxy: a connected send socket for uplink indications and a
// bound receive socket the proxy pushes slot ticks and downlink messages to.
type Transport struct {
	cfg       config.StandaloneConfig
	log       *logger.Logger
	clock     *SlotClock
	relay     MeasurementRelay
	collector *metrics.Collector

	txConn *net.UDPConn
	rxConn *net.UDPConn
}

// New creates a transport for the given standalone configuration. Sockets
// are not opened until Setup is called.
func New(cfg config.StandaloneConfig, clock *SlotClock, log *logger.Logger) *Transport {
	return &Transport{
		cfg:   cfg,
		clock: clock,
		log:   log.WithComponent("transport"),
	}
}

// WithRelay attaches the legacy UE measurement relay
func (t *Transport) WithRelay(r MeasurementRelay) *Transport {
	t.relay = r
	return t
}

// WithMetrics attaches a metrics collector
func (t *Transport) WithMetrics(c *metrics.Collector) *Transport {
	t.collector = c
	return t
}

// Setup opens the socket pair. Calling Setup on a transport whose sockets
// are already open is a programming error and fails rather than silently
// rebinding.
func (t *Transport) Setup() error {
	if t.txConn != nil || t.rxConn != nil {
		return fmt.Errorf("transport sockets already initialized")
	}

	proxyAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", t.cfg.ProxyAddr, t.cfg.TxPort))
	if err != nil {
		return fmt.Errorf("failed to resolve proxy address: %w", err)
	}

	txConn, err := net.DialUDP("udp", nil, proxyAddr)
	if err != nil {
		return fmt.Errorf("failed to open send socket: %w", err)
	}
	t.txConn = txConn

	rxConn, err := net.ListenUDP("udp", &net.UDPAddr{Port: t.cfg.RxPort})
	if err != nil {
		t.txConn.Close()
		t.txConn = nil
		return fmt.Errorf("failed to bind receive socket on port %d: %w", t.cfg.RxPort, err)
	}
	t.rxConn = rxConn

	t.log.Info("Standalone socket pair ready",
		logger.String("proxy", proxyAddr.String()),
		logger.String("rx_addr", rxConn.LocalAddr().String()),
	)
	return nil
}

// RxAddr returns the local address of the receive socket
func (t *Transport) RxAddr() (*net.UDPAddr, error) {
	if t.rxConn == nil {
		return nil, fmt.Errorf("receive socket not initialized")
	}
	return t.rxConn.LocalAddr().(*net.UDPAddr), nil
}

// Close tears down both sockets
func (t *Transport) Close() error {
	if t.txConn != nil {
		t.txConn.Close()
		t.txConn = nil
	}
	if t.rxConn != nil {
		t.rxConn.Close()
		t.rxConn = nil
	}
	return nil
}

// ReceiveLoop reads datagrams from the proxy until the context is
// cancelled. Malformed traffic is dropped and the loop continues; only
// socket-level programming errors terminate it.
func (t *Transport) ReceiveLoop(ctx context.Context) error {
	if t.rxConn == nil {
		return fmt.Errorf("receive socket not initialized")
	}

	// One byte larger than the biggest legal message so an oversized
	// datagram is observable as n > MaxPackedMessageSize instead of being
	// silently clipped to a parseable prefix.
	buffer := make([]byte, fapi.MaxPackedMessageSize+1)

	t.log.Info("Receive loop started", logger.Int("rx_port", t.cfg.RxPort))

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Receive loop stopping")
			return nil
		default:
		}

		t.rxConn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, _, err := t.rxConn.ReadFromUDP(buffer)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			t.log.Error("Read error on receive socket", logger.Error(err))
			continue
		}

		t.countDatagram()
		if err := t.handleDatagram(buffer[:n]); err != nil {
			return err
		}
	}
}

// handleDatagram classifies one datagram from the proxy. A 2-byte payload
// is a slot tick; anything else must carry a message header. Returns a
// non-nil error only for faults the process cannot continue from.
func (t *Transport) handleDatagram(data []byte) error {
	if len(data) > fapi.MaxPackedMessageSize {
		t.log.Warn("Dropping oversized datagram", logger.Int("size", len(data)))
		t.countTruncated()
		return nil
	}

	if len(data) == fapi.SfnSlotSize {
		tick, err := fapi.ParseSfnSlot(data)
		if err != nil {
			t.countUnpackFailure()
			return nil
		}
		t.log.Debug("Slot tick",
			logger.Uint16("sfn", tick.Sfn()),
			logger.Int("slot", int(tick.Slot())),
		)
		t.countSlotTick(tick)
		t.clock.Post(tick)
		return nil
	}

	header, err := fapi.ParseHeader(data)
	if err != nil {
		t.log.Debug("Dropping datagram with unparsable header",
			logger.Int("size", len(data)),
			logger.Error(err),
		)
		t.countUnpackFailure()
		return nil
	}

	switch header.MessageID {
	case fapi.MsgDLTTIRequest:
		req, err := fapi.ParseDLTTIRequest(data)
		if err != nil {
			t.log.Error("Failed to unpack DL_TTI.request", logger.Error(err))
			t.countUnpackFailure()
			return nil
		}
		return t.relayMeasurement(req)
	case fapi.MsgTxDataRequest:
		t.log.Info("TX_Data.request received", logger.Uint16("phy_id", header.PhyID))
	case fapi.MsgULDCIRequest:
		t.log.Info("UL_DCI.request received")
	case fapi.MsgULTTIRequest:
		t.log.Info("UL_TTI.request received")
	default:
		t.log.Error("No handler for message type",
			logger.Uint16("message_id", header.MessageID),
		)
	}
	return nil
}

// relayMeasurement stamps the placeholder RSRP into every SSB PDU of the
// request and forwards the re-encoded message to the legacy UE side.
func (t *Transport) relayMeasurement(req *fapi.DLTTIRequest) error {
	if len(req.Pdus) == 0 {
		return fmt.Errorf("DL_TTI.request %d.%d carries no PDUs", req.SFN, req.Slot)
	}

	stamped := 0
	for i := range req.Pdus {
		ssb := req.Pdus[i].SSB
		if ssb == nil {
			continue
		}
		ssb.SsbRsrp = fapi.SsbRsrpPlaceholder
		stamped++
		t.log.Debug("Populated SSB measurement",
			logger.Uint16("phys_cell_id", ssb.PhysCellID),
			logger.Uint16("rsrp", ssb.SsbRsrp),
		)
	}

	data, err := req.Encode()
	if err != nil {
		t.log.Error("Failed to repack DL_TTI.request", logger.Error(err))
		return nil
	}

	if t.relay != nil {
		if err := t.relay.Forward(data, KindRRCMeasurement); err != nil {
			t.log.Error("Measurement relay failed", logger.Error(err))
			return nil
		}
		t.countMeasurementRelay()
	}

	t.log.Info("Forwarded measurement report",
		logger.Uint16("sfn", req.SFN),
		logger.Int("slot", int(req.Slot)),
		logger.Int("ssb_pdus", stamped),
	)
	return nil
}

// SendRachIndication packs and sends a RACH.indication to the proxy. Send
// failures are logged and dropped; the proxy will observe the missed RACH
// and the UE retries on a later occasion.
func (t *Transport) SendRachIndication(rach *fapi.RachIndication) {
	if t.txConn == nil {
		t.log.Error("Send socket not initialized, dropping RACH.indication")
		return
	}

	data, err := rach.Encode()
	if err != nil {
		t.log.Error("Failed to pack RACH.indication", logger.Error(err))
		return
	}
	if len(data) > fapi.MaxPackedMessageSize {
		t.log.Error("RACH.indication exceeds maximum message size",
			logger.Int("size", len(data)),
		)
		return
	}

	if _, err := t.txConn.Write(data); err != nil {
		t.log.Error("Failed to send RACH.indication", logger.Error(err))
		t.countSendFailure()
		return
	}

	t.countRachSent()
	t.log.Info("RACH.indication sent",
		logger.Uint16("sfn", rach.SFN),
		logger.Int("slot", int(rach.Slot)),
		logger.Int("pdus", len(rach.Pdus)),
	)
}

func (t *Transport) countDatagram() {
	if t.collector != nil {
		t.collector.DatagramReceived()
	}
}

func (t *Transport) countTruncated() {
	if t.collector != nil {
		t.collector.DatagramTruncated()
	}
}

func (t *Transport) countUnpackFailure() {
	if t.collector != nil {
		t.collector.UnpackFailure()
	}
}

func (t *Transport) countSlotTick(tick fapi.SfnSlot) {
	if t.collector != nil {
		t.collector.SlotTick(tick)
	}
}

func (t *Transport) countMeasurementRelay() {
	if t.collector != nil {
		t.collector.MeasurementRelayed()
	}
}

func (t *Transport) countSendFailure() {
	if t.collector != nil {
		t.collector.SendFailure()
	}
}

func (t *Transport) countRachSent() {
	if t.collector != nil {
		t.collector.RachIndicationSent()
	}
}
