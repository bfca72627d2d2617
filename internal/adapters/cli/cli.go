// Package cli implements the cardiorisk command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/cardiorisk/internal/adapters/render"
	service "github.com/okian/cardiorisk/internal/app"
	"github.com/okian/cardiorisk/internal/config"
	"github.com/okian/cardiorisk/pkg/logger"
	"github.com/okian/cardiorisk/pkg/metrics"
)

// Linker flags set at build time.
var (
	version = "dev"
	commit  = "none"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer

	svc      *service.Service
	renderer *render.Renderer
	logger   logger.Logger
}

// Execute runs the command line with args. cfg holds the loaded
// configuration; flags override it.
func Execute(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cfg.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "cardiorisk",
		Short: "Compute clinical cardiovascular risk scores.",
		Long: `cardiorisk validates patient parameters against the input schema of a
clinical risk score and computes the score's published model.

Supported scores: CHA2DS2-VASc, HAS-BLED, SMART, SMARTReach, CHARGE-AF,
MAGGIC, BARCELONA Bio-HF V3, ABC-AF Stroke, ABC-AF Bleeding, ABC-AF Death.

Score names are matched ignoring case and punctuation, so "abc-af-stroke"
and "ABC-AF Stroke" select the same score.`,
		Version:            version + " (" + commit + ")",
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "output format: text, json or yaml")
	flags.IntVar(&a.cfg.Precision, "precision", a.cfg.Precision, "decimals shown for values in text output")
	flags.StringVar(&a.cfg.Color, "color", a.cfg.Color, "colour mode: auto, always or never")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format: text or json")
	flags.StringVar(&a.cfg.MetricsFile, "metrics-file", a.cfg.MetricsFile, "write Prometheus metrics to this file on exit")

	root.AddCommand(
		a.listCommand(),
		a.schemaCommand(),
		a.validateCommand(),
		a.computeCommand(),
		a.allCommand(),
		a.generateCommand(),
		a.checkCommand(),
		a.versionCommand(),
	)
	return root
}

// setup validates the merged configuration and builds the logger, the
// service and the renderer.
func (a *app) setup(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.cfg.Output = strings.ToLower(a.cfg.Output)
	a.cfg.Color = strings.ToLower(a.cfg.Color)
	if err := logger.Init(
		logger.WithWriter(a.stderr),
		logger.WithJSON(strings.EqualFold(a.cfg.LogFormat, config.OutputJSON)),
		logger.WithLevel(a.cfg.LogLevel),
	); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.logger = logger.Get().Named("cli")

	svc, err := service.New(
		service.WithLogger(logger.Get().Named("service")),
		service.WithWorkerCount(a.cfg.Workers),
		service.WithQueueSize(a.cfg.QueueSize),
		service.WithDedupeSize(a.cfg.DedupeSize),
	)
	if err != nil {
		return err
	}
	a.svc = svc

	r, err := render.New(a.stdout,
		render.WithFormat(a.cfg.Output),
		render.WithPrecision(a.cfg.Precision),
		render.WithColor(a.cfg.Color),
	)
	if err != nil {
		return err
	}
	a.renderer = r

	a.logger.Debug(ctx, "configuration loaded",
		logger.String("output", a.cfg.Output),
		logger.Int("precision", a.cfg.Precision),
		logger.Int("workers", a.cfg.Workers),
	)
	return nil
}

func (a *app) score(arg string) string {
	return resolveScore(a.svc.ListScores(), arg)
}
