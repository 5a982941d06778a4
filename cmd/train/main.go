package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"trainsim/cmd"
	"trainsim/internal/config"
	"trainsim/internal/training"
	"trainsim/pkg/api"

	"github.com/schollz/progressbar/v3"
)

func run() error {
	envFile := flag.String("env", "", "path to load env from")
	flag.Parse()

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	name, source, err := cmd.DatasetArgs(flag.Args(), stdout, "train")
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

	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewPCG(cfg.Seed, cfg.Seed)
	}
	emitter := training.NewEmitter(cfg.ModelBaseDir, cfg.EpochDelay, src)

	if cfg.ProgressBar {
		bar := progressbar.NewOptions(training.TotalEpochs,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(fmt.Sprintf("training %s", name)),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		emitter.OnEpoch(func(api.ProgressEvent) {
			_ = bar.Add(1)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err = emitter.Run(ctx, stdout, name, source)
	return err
}

func main() {
	cmd.Exit(run())
}
