package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dataquality/adapters/history"
	"dataquality/adapters/loader"
	"dataquality/adapters/profiler"
	"dataquality/adapters/render"
	"dataquality/app"
	"dataquality/internal/errors"
	"dataquality/ports"
)

var (
	analyzeName   string
	analyzeSample int
	analyzeSeed   int64
	analyzeReport string
	analyzeOutput string
	analyzeSave   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a dataset file and write a quality report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withStore := analyzeSave
		service, closeService, err := buildService(withStore)
		if err != nil {
			return err
		}
		defer closeService()

		opts := analysisOptions()
		opts.SampleSize = analyzeSample
		if cmd.Flags().Changed("seed") {
			opts.Seed = analyzeSeed
		}

		result, err := service.AnalyzeFile(cmd.Context(), args[0], analyzeName, opts)
		if err != nil {
			return err
		}
		fmt.Println(result.Digest())

		if analyzeSave {
			id, err := service.Save(cmd.Context(), result)
			if err != nil {
				return err
			}
			fmt.Printf("Saved to history as %s\n", id.String())
		}

		formatName := analyzeReport
		if formatName == "" {
			formatName = cfg.Report.Format
		}
		if formatName == "none" {
			return nil
		}
		format, err := ports.ParseFormat(formatName)
		if err != nil {
			return errors.InvalidInput(err.Error())
		}

		doc, err := service.Render(result, format)
		if err != nil {
			return err
		}

		output := analyzeOutput
		if output == "" {
			output = filepath.Join(cfg.Report.OutputDir, app.ReportFileName(result.Name, format))
		}
		if err := os.WriteFile(output, doc, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write report to %s", output)
		}
		fmt.Printf("Report written to %s\n", output)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "dataset name (defaults to the file name)")
	analyzeCmd.Flags().IntVar(&analyzeSample, "sample", 0, "analyze a random sample of N rows (0 = all rows)")
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "sampling seed (defaults to the configured seed)")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "report format: text, json, html, or none")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "report file path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the history store")
}

// analysisOptions maps the loaded configuration onto analyzer options.
func analysisOptions() app.Options {
	return app.Options{
		Seed:       cfg.Engine.SampleSeed,
		Profile:    cfg.Engine.ProfileConfig(),
		Thresholds: cfg.Engine.Thresholds(),
	}
}

// buildService assembles the application service. The history store is
// only opened when the command needs it.
func buildService(withStore bool) (*app.Service, func(), error) {
	analyzer, err := app.NewAnalyzer(app.Deps{
		Profiler: profiler.New(cfg.Engine.Workers),
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}

	deps := app.ServiceDeps{
		Loader:   loader.New(logger),
		Analyzer: analyzer,
		Renderer: render.New(),
		Logger:   logger,
	}

	closeService := func() {}
	if withStore {
		store, err := history.Open(cfg.Store.Driver, cfg.Store.DSN, logger)
		if err != nil {
			return nil, nil, errors.StoreError("failed to open history store", err)
		}
		deps.Store = store
		closeService = func() { store.Close() }
	}

	service, err := app.NewService(deps)
	if err != nil {
		closeService()
		return nil, nil, err
	}
	return service, closeService, nil
}
