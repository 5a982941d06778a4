package training

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"trainsim/internal/progress"
	"trainsim/pkg/api"

	"github.com/google/uuid"
)

const (
	TotalEpochs = 50

	DefaultModelBaseDir = "/tmp/trained_models"
	DefaultEpochDelay   = 100 * time.Millisecond
)

// ModelPath returns where a model trained on datasetName would be stored:
// the name lowercased with spaces turned into underscores, under baseDir.
func ModelPath(baseDir, datasetName string) string {
	name := strings.ToLower(strings.ReplaceAll(datasetName, " ", "_"))
	return strings.TrimRight(baseDir, "/") + "/" + name
}

type Emitter struct {
	modelBaseDir string
	delay        time.Duration
	source       rand.Source

	onEpoch func(api.ProgressEvent)
}

// NewEmitter creates an emitter that paces epochs by delay. A nil source uses
// the process-wide random source.
func NewEmitter(modelBaseDir string, delay time.Duration, source rand.Source) *Emitter {
	if modelBaseDir == "" {
		modelBaseDir = DefaultModelBaseDir
	}
	return &Emitter{
		modelBaseDir: modelBaseDir,
		delay:        delay,
		source:       source,
	}
}

// OnEpoch registers fn to be called after each progress event is written.
func (e *Emitter) OnEpoch(fn func(api.ProgressEvent)) {
	e.onEpoch = fn
}

// Run writes TotalEpochs progress events followed by one completion event to
// out. datasetSource is accepted for interface compatibility and only logged.
// If ctx is cancelled the run stops before the next event and no completion
// event is written.
func (e *Emitter) Run(ctx context.Context, out io.Writer, datasetName, datasetSource string) (api.CompletionEvent, error) {
	runId := uuid.New()
	logger := slog.With("run_id", runId, "dataset", datasetName, "source", datasetSource)
	logger.Info("starting training run", "epochs", TotalEpochs, "epoch_delay", e.delay)

	enc := progress.NewEncoder(out)
	metrics := newCurve(e.source)
	start := time.Now()

	var loss, accuracy float64
	for epoch := 1; epoch <= TotalEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("training run cancelled", "epoch", epoch)
			return api.CompletionEvent{}, fmt.Errorf("training cancelled before epoch %d: %w", epoch, err)
		}

		loss, accuracy = metrics.at(epoch)
		event := api.ProgressEvent{
			Type:     api.TrainingUpdate,
			Epoch:    epoch,
			Loss:     loss,
			Accuracy: accuracy,
		}
		if err := enc.Encode(event); err != nil {
			return api.CompletionEvent{}, fmt.Errorf("error emitting epoch %d: %w", epoch, err)
		}
		logger.Debug("epoch complete", "epoch", epoch, "loss", loss, "accuracy", accuracy)

		if e.onEpoch != nil {
			e.onEpoch(event)
		}

		if err := sleep(ctx, e.delay); err != nil {
			logger.Warn("training run cancelled", "epoch", epoch)
			return api.CompletionEvent{}, fmt.Errorf("training cancelled after epoch %d: %w", epoch, err)
		}
	}

	result := api.CompletionEvent{
		Status:        api.StatusCompleted,
		ModelPath:     ModelPath(e.modelBaseDir, datasetName),
		FinalAccuracy: accuracy,
		FinalLoss:     loss,
	}
	if err := enc.Encode(result); err != nil {
		return api.CompletionEvent{}, fmt.Errorf("error emitting completion: %w", err)
	}

	logger.Info("training run complete", "model_path", result.ModelPath, "final_loss", loss, "final_accuracy", accuracy, "duration", time.Since(start))
	return result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
