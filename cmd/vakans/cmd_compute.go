package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warp/vacancy-engine/api"
	"github.com/warp/vacancy-engine/factory"
	"github.com/warp/vacancy-engine/sickpay"
)

var (
	computeCalendar string
	computeInput    string
	computeSummary  bool
	computeWorkers  int
	computeVerbose  bool
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute one batch and print the result as JSON",
	Long: `Compute segments for a JSON batch without a server or database.

The calendar comes from the batch's own holiday lists when present,
otherwise from --calendar.

Examples:
  # Full result: segments, interval modes, ledgers, summary
  vakans compute --calendar config.yaml --input batch.json

  # Summary only, batch on stdin
  cat batch.json | vakans compute --calendar config.yaml --summary
`,
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVar(&computeCalendar, "calendar", "", "YAML calendar file")
	computeCmd.Flags().StringVarP(&computeInput, "input", "i", "-", "Batch JSON file ('-' for stdin)")
	computeCmd.Flags().BoolVar(&computeSummary, "summary", false, "Print only the per-person summary")
	computeCmd.Flags().IntVar(&computeWorkers, "workers", 0, "Persons computed concurrently (0 = number of CPUs)")
	computeCmd.Flags().BoolVarP(&computeVerbose, "verbose", "v", false, "Log ledger transitions to stderr")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	log := zerolog.Nop()
	if computeVerbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(zerolog.DebugLevel)
	}

	data, err := readInput(cmd.InOrStdin(), computeInput)
	if err != nil {
		return err
	}
	batch, err := factory.ParseBatch(data)
	if err != nil {
		return err
	}

	in := batch.Input
	if batch.Calendar == nil && computeCalendar != "" {
		raw, err := os.ReadFile(computeCalendar)
		if err != nil {
			return fmt.Errorf("read calendar: %w", err)
		}
		cal, _, err := factory.ParseCalendarYAML(raw)
		if err != nil {
			return fmt.Errorf("parse calendar %s: %w", computeCalendar, err)
		}
		in.Calendar = cal
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := sickpay.NewEngine(log)
	if computeWorkers > 0 {
		engine.Workers = computeWorkers
	}
	res, err := engine.Compute(ctx, in)
	if err != nil {
		return err
	}

	dto := api.NewCalculationDTO(sickpay.Run{}, res)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if computeSummary {
		return enc.Encode(dto.Summary)
	}
	return enc.Encode(dto)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
