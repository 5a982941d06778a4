package progress

import (
	"errors"
	"fmt"
	"io"

	"trainsim/pkg/api"
)

var (
	ErrEpochOutOfOrder = errors.New("epoch out of order")
	ErrAfterCompletion = errors.New("message after completion")
	ErrIncomplete      = errors.New("stream ended before completion")
)

// Tracker folds a training stream into the stats a UI shows while a run is in
// flight.
type Tracker struct {
	stats     api.TrainingStats
	modelPath string
	logs      []string
	completed bool
	failed    bool
}

func NewTracker(totalEpochs int) *Tracker {
	return &Tracker{
		stats: api.TrainingStats{
			TotalEpochs: totalEpochs,
			History:     []api.EpochStats{},
		},
		logs: []string{},
	}
}

// Apply updates the tracker with msg and returns the log line it produced.
func (t *Tracker) Apply(msg Message) (string, error) {
	if t.completed {
		return "", fmt.Errorf("line %d: %w", msg.Line, ErrAfterCompletion)
	}

	var entry string
	switch msg.Kind {
	case KindProgress:
		event := msg.Progress
		if event.Epoch != t.stats.CurrentEpoch+1 {
			return "", fmt.Errorf("line %d: %w: got epoch %d after %d", msg.Line, ErrEpochOutOfOrder, event.Epoch, t.stats.CurrentEpoch)
		}
		t.stats.CurrentEpoch = event.Epoch
		t.stats.Loss = event.Loss
		t.stats.Accuracy = event.Accuracy
		t.stats.History = append(t.stats.History, api.EpochStats{
			Epoch:    event.Epoch,
			Loss:     event.Loss,
			Accuracy: event.Accuracy,
		})
		entry = fmt.Sprintf("Epoch %d/%d - Loss: %.4f, Accuracy: %.4f", event.Epoch, t.stats.TotalEpochs, event.Loss, event.Accuracy)
	case KindCompletion:
		t.modelPath = msg.Completion.ModelPath
		t.completed = true
		entry = "Training completed successfully"
	case KindError:
		t.failed = true
		entry = "Error: " + msg.Error.Error
	default:
		return "", fmt.Errorf("line %d: %w", msg.Line, ErrUnknownMessage)
	}

	t.logs = append(t.logs, entry)
	return entry, nil
}

func (t *Tracker) Completed() bool {
	return t.completed
}

func (t *Tracker) Failed() bool {
	return t.failed
}

func (t *Tracker) Report() api.TrainingReport {
	history := make([]api.EpochStats, len(t.stats.History))
	copy(history, t.stats.History)
	stats := t.stats
	stats.History = history

	logs := make([]string, len(t.logs))
	copy(logs, t.logs)

	return api.TrainingReport{
		TrainingStats: stats,
		ModelPath:     t.modelPath,
		Logs:          logs,
	}
}

// Consume decodes r until EOF, applying every message to t. onLog, if not nil,
// receives each log line as soon as it is produced.
func Consume(r io.Reader, t *Tracker, onLog func(string)) error {
	decoder := NewDecoder(r)
	for {
		msg, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		entry, err := t.Apply(msg)
		if err != nil {
			return err
		}
		if onLog != nil {
			onLog(entry)
		}
	}

	if !t.Completed() {
		return ErrIncomplete
	}
	return nil
}
