package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openverso/nrue-if/pkg/logger"
)

// PrometheusConfig holds Prometheus server configuration
type PrometheusConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// PrometheusHandler handles Prometheus metrics HTTP requests
type PrometheusHandler struct {
	collector *Collector
}

// NewPrometheusHandler creates a new Prometheus handler
func NewPrometheusHandler(collector *Collector) *PrometheusHandler {
	return &PrometheusHandler{
		collector: collector,
	}
}

// ServeHTTP handles HTTP requests for metrics
func (h *PrometheusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	var output strings.Builder

	// Slot timing
	sfn, slot := h.collector.GetCurrentSlot()
	output.WriteString("# HELP nrue_slot_ticks_total Total slot ticks received from the proxy\n")
	output.WriteString("# TYPE nrue_slot_ticks_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_slot_ticks_total %d\n", h.collector.GetSlotTicks()))

	output.WriteString("# HELP nrue_current_sfn Current system frame number\n")
	output.WriteString("# TYPE nrue_current_sfn gauge\n")
	output.WriteString(fmt.Sprintf("nrue_current_sfn %d\n", sfn))

	output.WriteString("# HELP nrue_current_slot Current slot within the frame\n")
	output.WriteString("# TYPE nrue_current_slot gauge\n")
	output.WriteString(fmt.Sprintf("nrue_current_slot %d\n", slot))

	// Transport
	output.WriteString("# HELP nrue_datagrams_received_total Total datagrams received\n")
	output.WriteString("# TYPE nrue_datagrams_received_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_datagrams_received_total %d\n", h.collector.GetDatagramsReceived()))

	output.WriteString("# HELP nrue_datagrams_truncated_total Oversize datagrams dropped\n")
	output.WriteString("# TYPE nrue_datagrams_truncated_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_datagrams_truncated_total %d\n", h.collector.GetDatagramsTruncated()))

	output.WriteString("# HELP nrue_unpack_failures_total Header or body unpack failures\n")
	output.WriteString("# TYPE nrue_unpack_failures_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_unpack_failures_total %d\n", h.collector.GetUnpackFailures()))

	output.WriteString("# HELP nrue_measurement_relays_total Measurement reports relayed to the legacy UE\n")
	output.WriteString("# TYPE nrue_measurement_relays_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_measurement_relays_total %d\n", h.collector.GetMeasurementRelays()))

	output.WriteString("# HELP nrue_rach_indications_sent_total RACH indications sent to the proxy\n")
	output.WriteString("# TYPE nrue_rach_indications_sent_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_rach_indications_sent_total %d\n", h.collector.GetRachIndicationsSent()))

	output.WriteString("# HELP nrue_send_failures_total Failed transmits on the send socket\n")
	output.WriteString("# TYPE nrue_send_failures_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_send_failures_total %d\n", h.collector.GetSendFailures()))

	// Dispatch, one series per PDU kind
	output.WriteString("# HELP nrue_pdus_dispatched_total Downlink PDUs routed to MAC handlers\n")
	output.WriteString("# TYPE nrue_pdus_dispatched_total counter\n")
	for _, kind := range []string{"MIB", "SIB", "DLSCH", "RAR", "DCI"} {
		output.WriteString(fmt.Sprintf("nrue_pdus_dispatched_total{kind=%q} %d\n",
			kind, h.collector.GetPdusDispatched(kind)))
	}

	output.WriteString("# HELP nrue_pdu_failures_total Downlink PDUs whose handler returned failure\n")
	output.WriteString("# TYPE nrue_pdu_failures_total counter\n")
	for _, kind := range []string{"MIB", "SIB", "DLSCH", "RAR", "DCI"} {
		output.WriteString(fmt.Sprintf("nrue_pdu_failures_total{kind=%q} %d\n",
			kind, h.collector.GetPduFailures(kind)))
	}

	output.WriteString("# HELP nrue_scheduled_responses_total Scheduled responses delivered to PHY\n")
	output.WriteString("# TYPE nrue_scheduled_responses_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_scheduled_responses_total %d\n", h.collector.GetScheduledResponses()))

	output.WriteString("# HELP nrue_scheduler_passes_total Scheduler invocations\n")
	output.WriteString("# TYPE nrue_scheduler_passes_total counter\n")
	output.WriteString(fmt.Sprintf("nrue_scheduler_passes_total %d\n", h.collector.GetSchedulerPasses()))

	w.Write([]byte(output.String()))
}

// PrometheusServer is an HTTP server for Prometheus metrics
type PrometheusServer struct {
	config    PrometheusConfig
	collector *Collector
	log       *logger.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server
func NewPrometheusServer(config PrometheusConfig, collector *Collector, log *logger.Logger) *PrometheusServer {
	if log == nil {
		log = logger.New(logger.Config{Level: "info"})
	}

	return &PrometheusServer{
		config:    config,
		collector: collector,
		log:       log.WithComponent("metrics"),
	}
}

// Start starts the Prometheus metrics server
func (s *PrometheusServer) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Prometheus metrics server disabled")
		return nil
	}

	handler := NewPrometheusHandler(s.collector)
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, handler)

	// Use a listener to get the actual port (useful for testing with port 0)
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler: mux,
	}

	s.log.Info("Starting Prometheus metrics server",
		logger.Int("port", actualPort),
		logger.String("path", s.config.Path))

	// Start server
	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.log.Info("Shutting down Prometheus metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Stop stops the Prometheus metrics server
func (s *PrometheusServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}
}
