package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/openverso/nrue-if/pkg/config"
	"github.com/openverso/nrue-if/pkg/database"
	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/ifmodule"
	"github.com/openverso/nrue-if/pkg/logger"
	"github.com/openverso/nrue-if/pkg/mac"
	"github.com/openverso/nrue-if/pkg/metrics"
	"github.com/openverso/nrue-if/pkg/transport"
	"github.com/openverso/nrue-if/pkg/web"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// measurementSink is the legacy-UE side of the standalone relay: it unpacks
// forwarded DL_TTI.requests and fans the SSB measurements out to the
// dashboard feed and the measurement store.
type measurementSink struct {
	log  *logger.Logger
	hub  *web.WebSocketHub
	repo *database.MeasurementRepository
}

func (s *measurementSink) Forward(data []byte, kind transport.MessageKind) error {
	if kind != transport.KindRRCMeasurement {
		return nil
	}
	req, err := fapi.ParseDLTTIRequest(data)
	if err != nil {
		return fmt.Errorf("relayed message does not parse: %w", err)
	}

	for i := range req.Pdus {
		ssb := req.Pdus[i].SSB
		if ssb == nil {
			continue
		}
		if s.hub != nil {
			s.hub.BroadcastMeasurement(req.SFN, req.Slot, ssb.PhysCellID, ssb.SsbRsrp)
		}
		if s.repo != nil {
			report := &database.MeasurementReport{
				SFN:        req.SFN,
				Slot:       req.Slot,
				PhysCellID: ssb.PhysCellID,
				SsbIndex:   ssb.SsbBlockIndex,
				Rsrp:       ssb.SsbRsrp,
			}
			if err := s.repo.Create(report); err != nil {
				s.log.Warn("Failed to store measurement report", logger.Error(err))
			}
		}
	}
	return nil
}

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("nrue-if %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	log := logger.New(logger.Config{
		Level: "info",
	})

	log.Info("Starting nrue-if",
		logger.String("version", version),
		logger.String("build_time", buildTime))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	if *validate {
		log.Info("Configuration is valid")
		os.Exit(0)
	}

	// Re-create the logger with the configured level and file rotation
	log = logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	})

	log.Info("Configuration loaded successfully",
		logger.String("config_file", *configFile))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	metricsCollector := metrics.NewCollector()

	// Start Prometheus metrics server if enabled
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				metricsCollector,
				log.WithComponent("metrics"),
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Prometheus metrics server error", logger.Error(err))
			}
		}()
		log.Info("Prometheus metrics server started",
			logger.Int("port", cfg.Metrics.Prometheus.Port),
			logger.String("path", cfg.Metrics.Prometheus.Path))
	}

	// Open the measurement store if enabled
	var measurementRepo *database.MeasurementRepository
	var rachRepo *database.RachRepository
	if cfg.Database.Enabled {
		db, err := database.NewDB(database.Config{Path: cfg.Database.Path}, log.WithComponent("database"))
		if err != nil {
			log.Error("Failed to open database", logger.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn("Failed to close database", logger.Error(err))
			}
		}()
		measurementRepo = database.NewMeasurementRepository(db.GetDB())
		rachRepo = database.NewRachRepository(db.GetDB())
	}

	// Start web server if enabled
	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(cfg.Web, metricsCollector, log.WithComponent("web"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
		log.Info("Web server started",
			logger.String("host", cfg.Web.Host),
			logger.Int("port", cfg.Web.Port))
	}

	// Create the MAC and register the interface module
	macInstance := mac.NewInstance(cfg.Module.ULSlotMask, log)

	mode := ifmodule.ModeLocal
	if cfg.Standalone.Enabled {
		mode = ifmodule.ModeStandalone
	}

	registry := ifmodule.NewRegistry(cfg.Module.Capacity, log)
	module, err := registry.Create(cfg.Module.ID, ifmodule.Options{
		Mode:      mode,
		CCMask:    1,
		Handler:   macInstance,
		Scheduler: macInstance,
		PhyConfig: func(phyCfg *ifmodule.PhyConfig) {
			log.Info("PHY configuration requested",
				logger.Uint16("phys_cell_id", cfg.Module.PhysCellID))
		},
		OnDispatch: metricsCollector.PduDispatched,
		Responder: ifmodule.NewPHYResponder(func(resp *fapi.ScheduledResponse) error {
			metricsCollector.ScheduledResponse()
			return nil
		}),
	})
	if err != nil {
		log.Error("Failed to create interface module", logger.Error(err))
		os.Exit(1)
	}

	log.Info("Interface module registered",
		logger.Uint32("module_id", cfg.Module.ID),
		logger.String("mode", map[ifmodule.Mode]string{
			ifmodule.ModeLocal:      "local",
			ifmodule.ModeStandalone: "standalone",
		}[mode]))

	// Standalone transport: socket pair to the PHY proxy plus the slot
	// worker that drives the MAC off the proxy's ticks
	if cfg.Standalone.Enabled {
		sink := &measurementSink{log: log.WithComponent("relay"), repo: measurementRepo}
		if webServer != nil {
			sink.hub = webServer.GetHub()
		}

		clock := transport.NewSlotClock()
		tr := transport.New(cfg.Standalone, clock, log).
			WithRelay(sink).
			WithMetrics(metricsCollector)
		if err := tr.Setup(); err != nil {
			log.Error("Failed to set up standalone transport", logger.Error(err))
			os.Exit(1)
		}
		defer tr.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tr.ReceiveLoop(ctx); err != nil {
				log.Error("Receive loop failed", logger.Error(err))
				cancel()
			}
		}()

		// The slot worker blocks in clock.Wait with no cancellation point,
		// so it is not tracked by the wait group and exits with the process
		go func() {
			for {
				tick := clock.Wait()
				select {
				case <-ctx.Done():
					return
				default:
				}

				ul := &fapi.UplinkIndication{
					ModuleID: cfg.Module.ID,
					Frame:    tick.Sfn(),
					Slot:     tick.Slot(),
					FrameTx:  tick.Sfn(),
					SlotTx:   tick.Slot(),
				}
				state := module.UplinkIndication(ul)
				metricsCollector.SchedulerPass()

				if sink.hub != nil {
					sink.hub.BroadcastSlotTick(tick.Sfn(), tick.Slot())
					if state != mac.ConnectionOK {
						sink.hub.BroadcastConnectionState(state.String())
					}
				}

				if state == mac.HandoverPRACH || macInstance.IsULSlot(tick.Slot()) {
					rach := &fapi.RachIndication{
						PhyID: cfg.Standalone.PhyID,
						SFN:   tick.Sfn(),
						Slot:  tick.Slot(),
						Pdus: []fapi.RachPdu{{
							PhysCellID: cfg.Module.PhysCellID,
						}},
					}
					tr.SendRachIndication(rach)
					if sink.hub != nil {
						sink.hub.BroadcastRachSent(tick.Sfn(), tick.Slot(), rach.Pdus[0].PreambleIndex)
					}
					if rachRepo != nil {
						ev := &database.RachEvent{
							SFN:        tick.Sfn(),
							Slot:       tick.Slot(),
							PhysCellID: cfg.Module.PhysCellID,
						}
						if err := rachRepo.Create(ev); err != nil {
							log.Warn("Failed to store RACH event", logger.Error(err))
						}
					}
				}
			}
		}()

		log.Info("Standalone transport started",
			logger.String("proxy_addr", cfg.Standalone.ProxyAddr),
			logger.Int("tx_port", cfg.Standalone.TxPort),
			logger.Int("rx_port", cfg.Standalone.RxPort))
	}

	log.Info("nrue-if initialized")

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal",
			logger.String("signal", sig.String()))
	case <-ctx.Done():
		log.Error("Shutting down after fatal component error")
	}

	cancel()
	wg.Wait()

	log.Info("nrue-if stopped")
}
