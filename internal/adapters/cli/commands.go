package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/cardiorisk/internal/adapters/render"
	"github.com/okian/cardiorisk/internal/domain/types"
	"github.com/okian/cardiorisk/internal/domain/validation"
	"github.com/okian/cardiorisk/internal/selfcheck"
	"github.com/okian/cardiorisk/pkg/logger"
)

// inputFlags are the ways a command receives patient parameters.
type inputFlags struct {
	file  string
	pairs []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read parameters from a YAML or JSON file")
	cmd.Flags().StringArrayVarP(&f.pairs, "param", "p", nil, `set one parameter, e.g. -p "Age=70" (repeatable)`)
}

func (f *inputFlags) read() (validation.RawInputs, error) {
	return readInputs(f.file, f.pairs)
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the supported scores.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ids := a.svc.ListScores()
			list := make([]types.Schema, 0, len(ids))
			for _, id := range ids {
				s, err := a.svc.Schema(id)
				if err != nil {
					return err
				}
				list = append(list, s)
			}
			return a.renderer.Scores(list)
		},
	}
}

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <score>",
		Short: "Show the input fields of a score.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.svc.Schema(a.score(args[0]))
			if err != nil {
				return err
			}
			return a.renderer.Schema(s)
		},
	}
}

func (a *app) validateCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "validate <score>",
		Short: "Validate parameters and print them typed.",
		Long: `Validate parameters against a score's schema. Every invalid field is
reported, not just the first one.

Examples:
  cardiorisk validate maggic -f patient.yaml
  cardiorisk validate cha2ds2-vasc -p "Hypertension=yes" -p "Diabetes=no" ...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := in.read()
			if err != nil {
				return err
			}
			id := a.score(args[0])
			params, err := a.svc.Validate(cmd.Context(), id, raw)
			if err != nil {
				return err
			}
			s, err := a.svc.Schema(id)
			if err != nil {
				return err
			}
			return a.renderer.Parameters(s, params)
		},
	}
	in.register(cmd)
	return cmd
}

func (a *app) computeCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "compute <score>",
		Short: "Validate parameters and compute a score.",
		Long: `Validate parameters and compute a score.

Examples:
  cardiorisk compute "BARCELONA Bio-HF V3" -f patient.yaml
  cardiorisk compute abc-af-death -p Age=78 -p "Troponin T in ng/L=14" ...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := in.read()
			if err != nil {
				return err
			}
			res, err := a.svc.Evaluate(cmd.Context(), a.score(args[0]), raw)
			if err != nil {
				return err
			}
			return a.renderer.Result(res)
		},
	}
	in.register(cmd)
	return cmd
}

func (a *app) allCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Compute every score from one patient profile.",
		Long: `Compute every score from one patient profile. Each score reads the fields
it declares; scores whose required fields are missing report the error and
do not affect the others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := in.read()
			if err != nil {
				return err
			}
			outcomes := a.svc.EvaluateAll(cmd.Context(), raw)
			views := make([]render.Outcome, len(outcomes))
			for i, o := range outcomes {
				views[i] = render.Outcome{Score: o.Score}
				if o.Err != nil {
					views[i].Error = o.Err.Error()
					continue
				}
				res := o.Result
				views[i].Result = &res
			}
			return a.renderer.Outcomes(views)
		},
	}
	in.register(cmd)
	return cmd
}

func (a *app) generateCommand() *cobra.Command {
	var (
		seed    int64
		compute bool
	)
	cmd := &cobra.Command{
		Use:   "generate <score>",
		Short: "Generate a random valid parameter set.",
		Long: `Generate a random parameter set that passes validation. The same seed
always produces the same parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := a.score(args[0])
			if !cmd.Flags().Changed("seed") && seed == 0 {
				seed = time.Now().UnixNano()
			}
			a.logger.Info(cmd.Context(), "generating parameters", logger.String("score", id), logger.Int64("seed", seed))

			params, err := a.svc.GenerateRandomParameters(id, seed)
			if err != nil {
				return err
			}
			if compute {
				res, err := a.svc.Compute(cmd.Context(), id, params)
				if err != nil {
					return err
				}
				return a.renderer.Result(res)
			}
			s, err := a.svc.Schema(id)
			if err != nil {
				return err
			}
			return a.renderer.Parameters(s, params)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", a.cfg.Seed, "generator seed; a clock-based seed is used when unset")
	cmd.Flags().BoolVar(&compute, "compute", false, "compute the score from the generated parameters")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	var (
		scores []string
		replay string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the engines against generated cases.",
		Long: `Generate seeded random cases for every score, verify that each one
conforms to its schema, evaluates deterministically and produces finite,
bounded results, and report the failures.

Every case keeps its own seed. Write the run with --out and verify it again
later with --replay.

Examples:
  cardiorisk check --cases 1000 --seed 42
  cardiorisk check --score maggic --score smart --out cases.json
  cardiorisk check --replay cases.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				report *selfcheck.Report
				err    error
			)
			if replay != "" {
				report, err = a.svc.Replay(ctx, replay)
			} else {
				plan := selfcheck.Plan{Seed: a.cfg.Seed, Cases: a.cfg.Cases}
				if plan.Seed == 0 {
					plan.Seed = time.Now().UnixNano()
				}
				for _, s := range scores {
					plan.Scores = append(plan.Scores, a.score(s))
				}
				report, err = a.svc.SelfCheck(ctx, plan)
			}
			if err != nil {
				return err
			}

			if a.cfg.CheckOutput != "" {
				if err := selfcheck.WriteReplay(a.cfg.CheckOutput, report); err != nil {
					return err
				}
				a.logger.Info(ctx, "replay file written", logger.String("path", a.cfg.CheckOutput))
			}
			if err := a.renderer.Report(report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d of %d cases", ErrCheckFailed, len(report.Failures()), report.Total())
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&a.cfg.Cases, "cases", a.cfg.Cases, "cases generated per score")
	flags.Int64Var(&a.cfg.Seed, "seed", a.cfg.Seed, "run seed; a clock-based seed is used when zero")
	flags.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "verifying workers")
	flags.IntVar(&a.cfg.QueueSize, "queue-size", a.cfg.QueueSize, "capacity of the case queue")
	flags.IntVar(&a.cfg.DedupeSize, "dedupe-size", a.cfg.DedupeSize, "fingerprints kept to detect duplicate cases")
	flags.StringVar(&a.cfg.CheckOutput, "out", a.cfg.CheckOutput, "write every case to this replay file (.json, .yaml)")
	flags.StringVar(&replay, "replay", "", "verify the cases of a replay file instead of generating new ones")
	flags.StringArrayVar(&scores, "score", nil, "restrict the run to a score (repeatable)")
	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cardiorisk %s (commit %s)\n", version, commit)
			return err
		},
	}
}
