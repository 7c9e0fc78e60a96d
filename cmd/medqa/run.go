package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stellarlinkco/medqa-eval/internal/config"
	"github.com/stellarlinkco/medqa-eval/internal/dataset"
	"github.com/stellarlinkco/medqa-eval/internal/eval"
	"github.com/stellarlinkco/medqa-eval/internal/llm"
	"github.com/stellarlinkco/medqa-eval/internal/logging"
	"github.com/stellarlinkco/medqa-eval/internal/metrics"
	"github.com/stellarlinkco/medqa-eval/internal/results"
	"github.com/stellarlinkco/medqa-eval/internal/store"
)

type runOptions struct {
	input       string
	output      string
	limit       int
	provider    string
	openaiModel string
	claudeModel string
	ollamaModel string
	noEnv       bool
	quiet       bool
	verbose     bool
	noProgress  bool
	metrics     bool
	metricsOut  string
	addEval     bool
	strict      bool
	retries     int
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the evaluation batch over a JSONL question dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to input JSONL dataset")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "path to output JSON file (default auto-named)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "limit number of records (0=all)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "force provider: openai|claude|ollama (default: auto by env)")
	cmd.Flags().StringVar(&opts.openaiModel, "openai-model", "", "OpenAI model name")
	cmd.Flags().StringVar(&opts.claudeModel, "claude-model", "", "Claude model name")
	cmd.Flags().StringVar(&opts.ollamaModel, "ollama-model", "", "Ollama model name")
	cmd.Flags().BoolVar(&opts.noEnv, "no-env", false, "do not load .env before running")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress per-question output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "detailed per-question output")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable progress display")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "compute and print accuracy metrics")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "write metrics JSON to this path")
	cmd.Flags().BoolVar(&opts.addEval, "add-eval", false, "add 'pred' and 'is_correct' to results")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "abort on malformed dataset records instead of skipping")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "provider attempts per question (default from config)")

	return cmd
}

func runEval(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if !opts.noEnv {
		if err := config.LoadEnvFile(""); err != nil {
			return err
		}
	}

	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	applyRunOverrides(cmd, cfg, opts)

	verbosity := logging.Normal
	if opts.verbose {
		verbosity = logging.Verbose
	} else if opts.quiet {
		verbosity = logging.Quiet
	}
	log := logging.New(cmd.ErrOrStderr(), verbosity)

	items, err := dataset.Load(cfg.Dataset.Path, dataset.LoadOptions{
		Strict: cfg.Dataset.Strict,
		Log:    log,
	})
	if err != nil {
		return err
	}
	items = dataset.Truncate(items, cfg.Evaluation.Limit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, model, err := llm.Select(ctx, cfg, opts.provider)
	if err != nil {
		return err
	}
	providerName := provider.Name()
	provider = llm.WithRetry(provider, cfg.Evaluation.Retries, log)

	log.Info().
		Str("provider", providerName).
		Str("model", model).
		Int("items", len(items)).
		Msg("starting evaluation")

	var meter *progressMeter
	if !opts.noProgress && !opts.verbose && !opts.quiet {
		meter = newProgressMeter(cmd.ErrOrStderr())
	}

	runner := &eval.Runner{
		Provider:     provider,
		ProviderName: providerName,
		Model:        model,
		Log:          log,
		Progress:     meter.update,
	}

	start := time.Now()
	records, runErr := runner.Run(ctx, items)
	meter.finish()
	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}

	data, err := results.Encode(records, cfg.Evaluation.AddEval)
	if err != nil {
		return err
	}
	outPath := strings.TrimSpace(cfg.Output.ResultsPath)
	if outPath == "" {
		outPath = results.DefaultPath(providerName, model)
	}
	if err := results.WriteFile(outPath, data); err != nil {
		// Do not lose a completed batch: dump the payload before failing.
		log.Error().Err(err).Msg("writing results failed; dumping to stderr")
		_, _ = cmd.ErrOrStderr().Write(data)
		return err
	}
	if !opts.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved results to %s\n", outPath)
	}

	if !cfg.Evaluation.Metrics {
		return nil
	}

	sum := metrics.Aggregate(providerName, model, records)
	if !opts.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Accuracy: %d/%d = %.2f%%\n", sum.Correct, sum.Total, sum.Accuracy*100)
	}

	if path := strings.TrimSpace(cfg.Output.MetricsPath); path != "" {
		mb, err := results.EncodeMetrics(sum)
		if err != nil {
			return err
		}
		if err := results.WriteFile(path, mb); err != nil {
			log.Error().Err(err).Msg("writing metrics failed; dumping to stderr")
			_, _ = cmd.ErrOrStderr().Write(mb)
			return err
		}
		if !opts.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved metrics to %s\n", path)
		}
	}

	saveRunHistory(cmd, cfg, log, &sum, time.Since(start))
	return nil
}

func applyRunOverrides(cmd *cobra.Command, cfg *config.Config, opts *runOptions) {
	if v := strings.TrimSpace(opts.input); v != "" {
		cfg.Dataset.Path = v
	}
	if opts.strict {
		cfg.Dataset.Strict = true
	}
	// Changed, not nonzero: -n 0 and --retries 0 must reset a config value.
	if cmd.Flags().Changed("limit") {
		cfg.Evaluation.Limit = opts.limit
	}
	if cmd.Flags().Changed("retries") {
		cfg.Evaluation.Retries = opts.retries
	}
	if opts.addEval {
		cfg.Evaluation.AddEval = true
	}
	if opts.metrics {
		cfg.Evaluation.Metrics = true
	}
	if v := strings.TrimSpace(opts.output); v != "" {
		cfg.Output.ResultsPath = v
	}
	if v := strings.TrimSpace(opts.metricsOut); v != "" {
		cfg.Output.MetricsPath = v
	}

	setProviderModel(cfg, "openai", opts.openaiModel)
	setProviderModel(cfg, "claude", opts.claudeModel)
	setProviderModel(cfg, "ollama", opts.ollamaModel)
}

func setProviderModel(cfg *config.Config, name string, model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	p := cfg.LLM.Providers[name]
	p.Model = model
	cfg.LLM.Providers[name] = p
}

// saveRunHistory records the aggregated run in the local store. Failures are
// logged but never fail an otherwise completed run.
func saveRunHistory(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger, sum *metrics.Summary, elapsed time.Duration) {
	st, err := store.Open(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("run history unavailable")
		return
	}
	defer st.Close()

	run := &store.Run{
		Provider:   sum.Provider,
		Model:      sum.Model,
		Dataset:    filepath.Base(cfg.Dataset.Path),
		Total:      sum.Total,
		Correct:    sum.Correct,
		Accuracy:   sum.Accuracy,
		DurationMs: elapsed.Milliseconds(),
	}
	if err := st.Save(cmd.Context(), run); err != nil {
		log.Warn().Err(err).Msg("saving run history failed")
	}
}
