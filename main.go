package main

import (
	"context"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrops-br/inventory-browser/internal/app/service"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/catalogue"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/config"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/http"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/http/handler"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/repository/memory"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/telemetry"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/tui"
)

func main() {
	// Load configuration
	cfg, warnings := config.LoadConfig()

	// The terminal owns stdout, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP, &cfg.Log, logFile)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(&cfg.OTLP, &cfg.Log, logFile)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("inventory-browser")
	meter := telem.MeterProvider.Meter("inventory-browser")
	logger := telem.Logger

	for _, w := range warnings {
		logger.Warn("Configuration warning", "warning", w)
	}

	logger.Info("Starting inventory browser")

	products, err := catalogue.Load(cfg.Browser.CatalogueFile)
	if err != nil {
		logger.Error("Failed to load catalogue", "error", err.Error())
		log.Fatalf("Failed to load catalogue: %v", err)
	}

	repo := memory.NewCatalogueRepository(products, tracer, logger)
	bridge := tui.NewBridge()

	session, err := service.NewBrowserSession(repo,
		service.WithSearchDelay(cfg.Browser.SearchDebounce),
		service.WithPageSize(cfg.Browser.PageSize),
		service.WithTracer(tracer),
		service.WithMeter(meter),
		service.WithLogger(logger),
		service.WithOnChange(bridge.Refresh),
	)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(telemetry.WithSessionID(context.Background(), session.ID()))
	defer cancel()

	// Optional diagnostics endpoint
	var server *http.Server
	if cfg.Diagnostics.Enabled() {
		diagnosticsHandler := handler.NewDiagnosticsHandler(session, logger)
		server = http.NewServer(&cfg.Diagnostics, diagnosticsHandler, session.ID(), logger, telem)

		go func() {
			if err := server.Start(); err != nil {
				logger.Error("Diagnostics server error", "error", err.Error())
			}
		}()
	}

	program := tea.NewProgram(tui.New(ctx, session, bridge, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(program)

	if _, err := program.Run(); err != nil {
		logger.Error("Terminal program error", "error", err.Error())
	}

	// Unblock any confirmation still waiting on the terminal
	cancel()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down diagnostics server", "error", err.Error())
		}
	}

	logger.Info("Inventory browser stopped")
}
