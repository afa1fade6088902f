package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/bookable/internal/calendar"
	"github.com/teemow/bookable/internal/instrumentation"
	"github.com/teemow/bookable/internal/logging"
	"github.com/teemow/bookable/internal/schedule"
	"github.com/teemow/bookable/internal/server"
	"github.com/teemow/bookable/internal/tools/schedule_tools"
)

func newServeCmd() *cobra.Command {
	var (
		account        string
		calendarID     string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server over stdio, exposing
scheduling tools for AI assistants: finding free slots, listing busy
windows, booking meetings with a Google Meet link and managing the
cache.

The server logs to stderr; stdout carries the MCP protocol. When
metrics are enabled, Prometheus metrics and health endpoints are served
on a dedicated port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(account, calendarID, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar ID to operate on (default: BOOKABLE_CALENDAR_ID or 'primary')")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(account, calendarID string, metricsEnabled bool, metricsAddr string) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the MCP protocol, so all logging goes to stderr
	slogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger := logging.NewSlogAdapter(slogger)

	// Load metrics config from environment if not set via flags
	if os.Getenv("METRICS_ENABLED") == "false" {
		metricsEnabled = false
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" && metricsAddr == server.DefaultMetricsAddr {
		metricsAddr = addr
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slogger.Error("instrumentation shutdown failed", "error", err)
		}
	}()

	client, err := calendar.NewClient(shutdownCtx, calendar.Config{
		Account:    account,
		CalendarID: calendarID,
		Metrics:    provider.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar client for account %s: %w", account, err)
	}

	scheduler, err := schedule.New(schedule.Config{
		Source:  client,
		Logger:  logger,
		Metrics: provider.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slogger.Error("metrics server failed", "error", err)
			}
		}()
		slogger.Info("metrics server started", "addr", metricsServer.Addr())
	}
	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slogger.Error("metrics server shutdown failed", "error", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("bookable", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := schedule_tools.RegisterScheduleTools(mcpSrv, &schedule_tools.Deps{
		Scheduler: scheduler,
		Calendar:  client,
	}); err != nil {
		return fmt.Errorf("failed to register scheduling tools: %w", err)
	}

	return runStdioServer(mcpSrv)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
