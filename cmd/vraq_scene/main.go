package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/vraq/scene/internal/api"
	"github.com/vraq/scene/internal/channel"
	"github.com/vraq/scene/internal/config"
	"github.com/vraq/scene/internal/geo"
	"github.com/vraq/scene/internal/influx"
	"github.com/vraq/scene/internal/logging"
	"github.com/vraq/scene/internal/marker"
	intOtel "github.com/vraq/scene/internal/otel"
	"github.com/vraq/scene/internal/render"
	"github.com/vraq/scene/internal/render/memory"
	"github.com/vraq/scene/internal/render/websocket"
	"github.com/vraq/scene/internal/session"
	"github.com/vraq/scene/internal/upload"
)

var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"
)

// globals wired in setup()
var (
	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	OTelProvider *intOtel.Provider
	LogFile      *os.File

	Session       *session.Context
	Client        *api.Client
	InfluxManager *influx.Manager
	RenderHost    render.Host
	Markers       *marker.Manager

	SessionStartTime time.Time = time.Now()
)

// setup loads config and brings up logging, telemetry, the render host
// and the marker lifecycle manager.
func setup() error {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logPath := logging.LogFilePath(logsDir, SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logPath)
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    LogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		}
	}

	// Re-setup logging with file output and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(LogFile, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logPath)

	Session = session.NewContext()

	mapper := geo.NewMapper(
		viper.GetFloat64("board.width"),
		viper.GetFloat64("board.depth"),
		viper.GetFloat64("board.clearance"),
	)

	validator := upload.NewValidator(
		viper.GetStringSlice("upload.allowedExtensions"),
		viper.GetInt64("upload.maxFileSize"),
	)

	progressCh := channel.New[api.ProgressUpdate](16)
	go func() {
		for update := range progressCh.Receive() {
			fmt.Printf("[%3d%%] %s\n", update.Percent, update.Message)
		}
	}()

	Client = api.New(
		viper.GetString("api.serverUrl"),
		Session,
		api.WithMapper(mapper),
		api.WithValidator(validator),
		api.WithProgress(progressCh),
	)

	// InfluxDB is best-effort: a down database never blocks analysis.
	if viper.GetBool("influx.enabled") {
		zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
		InfluxManager = influx.NewManager(zl, logging.LogFilePath(logsDir, SessionStartTime)+".influx.gz")
		if err := InfluxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, metrics disabled", "error", err)
			InfluxManager = nil
		}
	}

	switch backend := viper.GetString("render.backend"); backend {
	case "websocket":
		ws := websocket.New(websocket.Config{
			URL:    viper.GetString("render.websocketUrl"),
			Secret: viper.GetString("render.secret"),
		}, Logger)
		RenderHost = ws
	case "memory":
		RenderHost = memory.New()
	default:
		return fmt.Errorf("unknown render backend %q", backend)
	}
	if err := RenderHost.Init(); err != nil {
		return fmt.Errorf("render host init failed: %w", err)
	}

	Markers, err = marker.NewManager(marker.Dependencies{
		Host:    RenderHost,
		Session: Session,
		Mapper:  mapper,
		Logger:  Logger,
	})
	if err != nil {
		return fmt.Errorf("marker manager init failed: %w", err)
	}

	return nil
}

func teardown() {
	if Markers != nil {
		Markers.Close()
	}
	if RenderHost != nil {
		if err := RenderHost.Close(); err != nil {
			Logger.Error("Render host close failed", "error", err)
		}
	}
	if InfluxManager != nil {
		InfluxManager.Close()
	}
	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Warn("OTel flush failed", "error", err)
		}
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("OTel shutdown failed", "error", err)
		}
	}
	if LogFile != nil {
		LogFile.Close()
	}
}

func main() {
	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer teardown()

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "version":
		fmt.Printf("vraq_scene %s (built %s)\n", Version, BuildDate)
	case "health":
		err = runHealth()
	case "analyze":
		err = runAnalyze(args[1:])
	case "fetch":
		err = runFetch(args[1:])
	case "export":
		err = runExport(args[1:])
	case "templates":
		err = runListTemplates()
	case "upload-template":
		err = runUploadTemplates(args[1:])
	case "watch":
		err = runWatch(args[1:])
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		Logger.Error("Command failed", "command", args[0], "error", err)
		teardown()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`usage: vraq_scene <command> [args]

commands:
  analyze <reference> <test>   submit an image pair and visualize the result
  fetch <analysis-id>          load a past analysis into the scene
  export <analysis-id> <fmt>   write a report artifact (json or csv)
  watch <reference> <test>     analyze, then re-analyze on an interval
  templates                    list reference templates on the service
  upload-template <files...>   push reference templates to the service
  health                       check the analysis service
  version                      print version`)
}

// waitForInterrupt blocks until SIGINT or SIGTERM.
func waitForInterrupt() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	Logger.Info("Shutting down", "signal", sig.String())
}
