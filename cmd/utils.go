package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"trainsim/internal/progress"
	"trainsim/pkg/api"

	"github.com/joho/godotenv"
)

var ErrUsage = errors.New("usage error")

func LoadEnvFile(path string) error {
	if path == "" {
		slog.Debug("no env file specified, using os.Environ only")
		return nil
	}

	slog.Info("loading env file", "path", path)
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading .env file '%s': %w", path, err)
	}
	return nil
}

// SetupLogger routes slog to stderr; stdout is reserved for JSON output.
func SetupLogger(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func Usage(program string) string {
	return fmt.Sprintf("Usage: %s <dataset_name> <dataset_source>", program)
}

// DatasetArgs returns the dataset name and source from the positional args.
// With fewer than two args it writes the usage error event to out and returns
// ErrUsage; the caller should exit with status 1 without doing anything else.
func DatasetArgs(args []string, out io.Writer, program string) (name, source string, err error) {
	if len(args) < 2 {
		if encErr := progress.NewEncoder(out).Encode(api.ErrorEvent{Error: Usage(program)}); encErr != nil {
			return "", "", errors.Join(ErrUsage, encErr)
		}
		return "", "", ErrUsage
	}
	return args[0], args[1], nil
}

func Exit(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, ErrUsage) {
		slog.Error("fatal error", "error", err)
	}
	os.Exit(1)
}
