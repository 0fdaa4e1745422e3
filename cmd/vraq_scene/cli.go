package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/vraq/scene/internal/export"
	"github.com/vraq/scene/pkg/core"
)

func requestTimeout() time.Duration {
	return time.Duration(viper.GetInt("api.requestTimeout")) * time.Second
}

func runHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout())
	defer cancel()

	hs, err := Client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("analysis service: %s (version %s)\n", hs.Status, hs.Version)
	return nil
}

func runAnalyze(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("analyze needs a reference and a test image")
	}

	if err := runAnalyzeOnce(args[0], args[1]); err != nil {
		return err
	}

	if viper.GetString("render.backend") == "websocket" {
		Logger.Info("Scene streaming, press Ctrl+C to exit")
		waitForInterrupt()
	}
	return nil
}

func runFetch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("fetch needs an analysis id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout())
	defer cancel()

	report, err := Client.FetchReport(ctx, args[0])
	if err != nil {
		return err
	}

	Markers.LoadReport(report)
	bundle := Session.Current()
	if bundle != nil {
		printSummary(report, bundle.Stats)
	}

	if viper.GetString("render.backend") == "websocket" {
		Logger.Info("Scene streaming, press Ctrl+C to exit")
		waitForInterrupt()
	}
	return nil
}

func runExport(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("export needs an analysis id and a format (json or csv)")
	}
	id, format := args[0], args[1]

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout())
	defer cancel()

	report, err := Client.FetchReport(ctx, id)
	if err != nil {
		return err
	}

	exportDir := viper.GetString("exportDir")
	if _, err := os.Stat(exportDir); os.IsNotExist(err) {
		os.Mkdir(exportDir, 0755)
	}

	path, err := export.WriteArtifact(report, exportDir, format, viper.GetBool("compressExports"))
	if err != nil {
		return err
	}
	Logger.Info("Report exported", "analysisID", id, "path", path)
	fmt.Println(path)
	return nil
}

func runListTemplates() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout())
	defer cancel()

	templates, err := Client.ListTemplates(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println("no templates on the analysis service")
		return nil
	}
	for _, t := range templates {
		fmt.Printf("%-24s %10d bytes  %s\n", t.Name, t.Size, t.Modified)
	}
	return nil
}

func runUploadTemplates(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("upload-template needs at least one file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout())
	defer cancel()

	uploaded, err := Client.UploadTemplates(ctx, args...)
	if err != nil {
		return err
	}
	Logger.Info("Templates uploaded", "count", len(uploaded))
	return nil
}

// runWatch analyzes the pair once, then keeps re-submitting it on the
// configured interval so the scene tracks a board under rework.
func runWatch(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("watch needs a reference and a test image")
	}
	reference, test := args[0], args[1]

	if err := runAnalyzeOnce(reference, test); err != nil {
		return err
	}

	interval := time.Duration(viper.GetInt("autoRefresh.intervalSeconds")) * time.Second
	Markers.StartAutoRefresh(interval, func(ctx context.Context) (*core.AnalysisReport, error) {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout())
		defer cancel()
		bundle, err := Client.SubmitForAnalysis(ctx, reference, test)
		if err != nil {
			return nil, err
		}
		recordMetrics(bundle.Report, bundle.Stats)
		return bundle.Report, nil
	})
	defer Markers.StopAutoRefresh()

	waitForInterrupt()
	return nil
}

func runAnalyzeOnce(reference, test string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout())
	defer cancel()

	bundle, err := Client.SubmitForAnalysis(ctx, reference, test)
	if err != nil {
		return err
	}
	Markers.LoadReport(bundle.Report)
	recordMetrics(bundle.Report, bundle.Stats)
	printSummary(bundle.Report, bundle.Stats)
	return nil
}

func recordMetrics(report *core.AnalysisReport, stats core.Statistics) {
	if InfluxManager == nil {
		return
	}
	if err := InfluxManager.RecordAnalysis(report, stats); err != nil {
		Logger.Warn("Failed to record analysis metrics", "error", err)
	}
}

func printSummary(report *core.AnalysisReport, stats core.Statistics) {
	fmt.Printf("analysis %s: %s\n", report.AnalysisID, report.OverallStatus)
	fmt.Printf("  components: %d  ok: %d  missing: %d  misaligned: %d  other: %d\n",
		stats.Total, stats.OK, stats.Missing, stats.Misaligned, stats.Other)
}
