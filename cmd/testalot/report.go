package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dkoosis/testalot/internal/config"
	"github.com/dkoosis/testalot/pkg/analyze"
	"github.com/dkoosis/testalot/pkg/collect"
	"github.com/dkoosis/testalot/pkg/mapper"
	"github.com/dkoosis/testalot/pkg/render"
)

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [paths...]",
		Short: "Report on existing Surefire reports",
		Long: "Analyzes Surefire XML reports without running anything. Paths may be report " +
			"files or directories, which are searched recursively. Without paths the archive " +
			"directory is used.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			log := a.newLogger(cfg)
			paths := args
			if len(paths) == 0 {
				paths = []string{a.harvester(cfg, log).ArchivePath()}
			}
			return a.report(cfg, log, paths)
		},
	}
}

// report collects every outcome under paths, analyzes them and writes the
// rendered report to stdout.
func (a *app) report(cfg config.Config, log logrus.FieldLogger, paths []string) error {
	collector := collect.New(a.fs,
		collect.WithExtension(cfg.Extension),
		collect.WithLogger(log),
	)
	outcomes, err := collector.Collect(paths)
	if err != nil {
		return err
	}
	log.WithField("outcomes", len(outcomes)).Debug("reports collected")

	rep, err := analyze.Analyze(outcomes, cfg.Report.Top)
	if err != nil {
		return fmt.Errorf("analyzing reports: %w", err)
	}
	renderer, err := render.New(cfg.Report.Format, cfg.Report.Theme, a.width(a.stdout))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(a.stdout, renderer.Render(mapper.FromAnalysis(rep))); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
