package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"trainsim/cmd"
	"trainsim/internal/config"
	"trainsim/internal/progress"
	"trainsim/internal/training"
)

// trainlog reads a training stream on stdin, e.g. `train iris local | trainlog`,
// echoes a log line per event to stderr and prints the final report as JSON.
func run() error {
	envFile := flag.String("env", "", "path to load env from")
	flag.Parse()

	if err := cmd.LoadEnvFile(*envFile); err != nil {
		return err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	cmd.SetupLogger(os.Stderr, cfg.LogLevel)

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	tracker := progress.NewTracker(training.TotalEpochs)
	consumeErr := progress.Consume(os.Stdin, tracker, func(line string) {
		fmt.Fprintln(os.Stderr, line)
	})
	if consumeErr != nil && tracker.Failed() {
		consumeErr = fmt.Errorf("trainer reported an error: %w", consumeErr)
	}

	report := tracker.Report()
	slog.Debug("training stream consumed", "epochs", report.TrainingStats.CurrentEpoch, "model_path", report.ModelPath)

	if err := progress.NewEncoder(stdout).Encode(report); err != nil {
		return err
	}
	return consumeErr
}

func main() {
	cmd.Exit(run())
}
