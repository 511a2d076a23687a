package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rdgo/drawdown-calculator/internal/api"
	"github.com/rdgo/drawdown-calculator/internal/calculation"
	"github.com/rdgo/drawdown-calculator/internal/compare"
	"github.com/rdgo/drawdown-calculator/internal/config"
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/rdgo/drawdown-calculator/internal/output"
	"github.com/rdgo/drawdown-calculator/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rdgo",
	Short: "Canadian retirement drawdown calculator",
	Long: "Household drawdown planner for Canadian retirement accounts: projects RRIF, TFSA and\n" +
		"non-registered withdrawals, taxes, government benefits and estate outcomes under\n" +
		"selectable withdrawal strategies.",
	SilenceUsage: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [plan-file]",
	Short: "Project one retirement plan year by year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd, "warn")

		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		strategy, err := resolveStrategy(cmd, plan)
		if err != nil {
			return err
		}

		engine := calculation.NewEngineWithLogger(log)
		projection, err := engine.Run(cmd.Context(), plan.Inputs, strategy)
		if err != nil {
			return err
		}

		w, closeOutput, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOutput()

		format, _ := cmd.Flags().GetString("format")
		return output.GenerateReport(w, projection, format)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Rank every withdrawal strategy for one plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd, "warn")

		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		engine := calculation.NewEngineWithLogger(log)
		compareEngine := compare.NewCompareEngine(engine)
		result, err := compareEngine.RunAll(cmd.Context(), plan.Inputs)
		if err != nil {
			return err
		}

		w, closeOutput, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOutput()

		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "csv":
			formatter := &compare.CSVFormatter{}
			out, err := formatter.Format(result)
			if err != nil {
				return fmt.Errorf("failed to format CSV: %w", err)
			}
			fmt.Fprint(w, out)

		case "json":
			formatter := &compare.JSONFormatter{Pretty: true}
			out, err := formatter.Format(result)
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprint(w, out)

		case "table", "console", "":
			formatter := &compare.TableFormatter{}
			fmt.Fprint(w, formatter.Format(result))

		default:
			return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
		}
		return nil
	},
}

var stressCmd = &cobra.Command{
	Use:   "stress [plan-file]",
	Short: "Sweep return and inflation assumptions for one strategy",
	Long: `Sweep a grid of return and inflation assumptions and report the P10/P50/P90
bands of portfolio balance, net income and total tax.

Examples:
  rdgo stress plan.yaml --arr-min 0.03 --arr-max 0.07 --arr-step 0.01
  rdgo stress plan.yaml --arr-min 0.02 --arr-max 0.08 --inflation-min 0.01 --inflation-max 0.04 --format json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd, "warn")

		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		strategy, err := resolveStrategy(cmd, plan)
		if err != nil {
			return err
		}

		engine := calculation.NewEngineWithLogger(log)
		grid := calculation.NewStressGridWithLogger(engine, log)
		returns := rangeFromFlags(cmd, "arr", plan.Inputs.AnnualReturnRate)
		inflation := rangeFromFlags(cmd, "inflation", plan.Inputs.InflationRate)

		result, err := grid.Run(cmd.Context(), plan.Inputs, strategy, returns, inflation)
		if err != nil {
			return err
		}

		w, closeOutput, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOutput()

		format, _ := cmd.Flags().GetString("format")
		return output.GenerateStressReport(w, result, format)
	},
}

var bracketsCmd = &cobra.Command{
	Use:   "brackets",
	Short: "Print the combined federal + Ontario tax bracket reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule := calculation.NewOntarioCombinedSchedule2025(decimal.Zero)

		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "json":
			formatter := &compare.JSONFormatter{Pretty: true}
			out, err := formatter.FormatAny(map[string][]calculation.BracketReference{
				"combinedOntario": schedule.Reference(),
			})
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprintln(os.Stdout, out)

		case "console", "table", "":
			fmt.Printf("COMBINED FEDERAL + ONTARIO TAX BRACKETS (%d)\n", schedule.BaseYear)
			fmt.Println(strings.Repeat("=", 48))
			fmt.Printf("%-24s %12s\n", "Taxable income up to", "Marginal rate")
			for _, row := range schedule.Reference() {
				upTo := "no limit"
				if row.UpTo != nil {
					upTo = output.FormatCurrency(*row.UpTo)
				}
				fmt.Printf("%-24s %12s\n", upTo, output.FormatPercentage(row.Rate.Mul(decimal.NewFromInt(100))))
			}

		default:
			return fmt.Errorf("unknown output format: %s (valid: console, json)", format)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init [plan-file]",
	Short: "Write a starter plan file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "plan.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if fileExists(path) {
			return fmt.Errorf("refusing to overwrite existing file %s", path)
		}
		if err := config.SaveToFile(config.ExamplePlan(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote starter plan to %s\n", path)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Plan file %s is valid (strategy: %s)\n", args[0], plan.Strategy.Label())
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner JSON API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd, "info")
		logger.SetGlobalLogger(log)

		flagPort, _ := cmd.Flags().GetInt("port")
		srv := api.New(api.Config{Port: api.ResolvePort(flagPort), Log: log})

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "rdgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func newLogger(cmd *cobra.Command, defaultLevel string) zerolog.Logger {
	level := defaultLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, Pretty: true})
}

func loadPlan(path string) (*config.Plan, error) {
	parser := config.NewInputParser()
	return parser.LoadFromFile(path)
}

func resolveStrategy(cmd *cobra.Command, plan *config.Plan) (domain.StrategyID, error) {
	flag, _ := cmd.Flags().GetString("strategy")
	if flag == "" {
		return plan.Strategy, nil
	}
	return domain.ParseStrategyID(flag)
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func rangeFromFlags(cmd *cobra.Command, prefix string, base decimal.Decimal) domain.AssumptionRange {
	if !cmd.Flags().Changed(prefix+"-min") && !cmd.Flags().Changed(prefix+"-max") {
		return domain.PointRange(base)
	}
	lower, _ := cmd.Flags().GetFloat64(prefix + "-min")
	upper, _ := cmd.Flags().GetFloat64(prefix + "-max")
	step, _ := cmd.Flags().GetFloat64(prefix + "-step")
	return domain.AssumptionRange{
		Min:  decimal.NewFromFloat(lower),
		Max:  decimal.NewFromFloat(upper),
		Step: decimal.NewFromFloat(step),
	}
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	analyzeCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	analyzeCmd.Flags().StringP("strategy", "s", "", "Withdrawal strategy override (rrif_first, non_registered_first, bracket_fill, tax_smoothing)")
	analyzeCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")

	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	compareCmd.Flags().StringP("output", "o", "", "Write the comparison to a file instead of stdout")

	stressCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	stressCmd.Flags().StringP("strategy", "s", "", "Withdrawal strategy override")
	stressCmd.Flags().StringP("output", "o", "", "Write the sweep to a file instead of stdout")
	stressCmd.Flags().Float64("arr-min", 0, "Return sweep lower bound (fraction, e.g. 0.03)")
	stressCmd.Flags().Float64("arr-max", 0, "Return sweep upper bound (fraction)")
	stressCmd.Flags().Float64("arr-step", 0.01, "Return sweep step (fraction)")
	stressCmd.Flags().Float64("inflation-min", 0, "Inflation sweep lower bound (fraction)")
	stressCmd.Flags().Float64("inflation-max", 0, "Inflation sweep upper bound (fraction)")
	stressCmd.Flags().Float64("inflation-step", 0.01, "Inflation sweep step (fraction)")

	bracketsCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	serveCmd.Flags().IntP("port", "p", 0, "Listen port (default PLANNER_PORT or 8080)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(stressCmd)
	rootCmd.AddCommand(bracketsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
