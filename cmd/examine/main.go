package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"trainsim/cmd"
	"trainsim/internal/config"
	"trainsim/internal/dataset"
	"trainsim/internal/progress"
)

func run() error {
	envFile := flag.String("env", "", "path to load env from")
	flag.Parse()

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	name, source, err := cmd.DatasetArgs(flag.Args(), stdout, "examine")
	if err != nil {
		return err
	}

	if err := cmd.LoadEnvFile(*envFile); err != nil {
		return err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	cmd.SetupLogger(os.Stderr, cfg.LogLevel)

	catalog, err := dataset.DefaultCatalog()
	if err != nil {
		return err
	}

	frame, err := catalog.Load(source)
	if err != nil {
		return fmt.Errorf("error loading dataset %q from %q: %w", name, source, err)
	}

	analysis := dataset.Summarize(frame)
	slog.Info("dataset examined", "dataset", name, "source", source, "rows", analysis.Shape[0], "columns", analysis.Shape[1])

	return progress.NewEncoder(stdout).Encode(analysis)
}

func main() {
	cmd.Exit(run())
}
