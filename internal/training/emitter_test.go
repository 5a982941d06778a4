package training_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"trainsim/internal/progress"
	"trainsim/internal/training"
	"trainsim/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runEmitter(t *testing.T, name, source string, seed uint64) (api.CompletionEvent, []progress.Message, string) {
	t.Helper()
	var out bytes.Buffer
	emitter := training.NewEmitter("/tmp/trained_models", 0, rand.NewPCG(seed, seed+1))
	result, err := emitter.Run(context.Background(), &out, name, source)
	require.NoError(t, err)

	var msgs []progress.Message
	dec := progress.NewDecoder(bytes.NewReader(out.Bytes()))
	for {
		msg, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		msgs = append(msgs, msg)
	}
	return result, msgs, out.String()
}

func TestEmitterStreamShape(t *testing.T) {
	result, msgs, raw := runEmitter(t, "iris", "local", 1)

	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	require.Len(t, lines, training.TotalEpochs+1)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}

	require.Len(t, msgs, training.TotalEpochs+1)
	for i, msg := range msgs[:training.TotalEpochs] {
		require.Equal(t, progress.KindProgress, msg.Kind)
		assert.Equal(t, api.TrainingUpdate, msg.Progress.Type)
		assert.Equal(t, i+1, msg.Progress.Epoch)
	}

	last := msgs[training.TotalEpochs]
	require.Equal(t, progress.KindCompletion, last.Kind)
	assert.Equal(t, api.StatusCompleted, last.Completion.Status)
	assert.Equal(t, "/tmp/trained_models/iris", last.Completion.ModelPath)
	assert.Equal(t, result, *last.Completion)
}

func TestEmitterFinalValuesMatchLastEpoch(t *testing.T) {
	_, msgs, _ := runEmitter(t, "iris", "local", 2)

	final := msgs[training.TotalEpochs-1].Progress
	done := msgs[training.TotalEpochs].Completion
	assert.Equal(t, final.Loss, done.FinalLoss)
	assert.Equal(t, final.Accuracy, done.FinalAccuracy)
}

func TestEmitterClampsMetrics(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		_, msgs, _ := runEmitter(t, "iris", "hf", seed)
		for _, msg := range msgs[:training.TotalEpochs] {
			assert.GreaterOrEqual(t, msg.Progress.Loss, 0.01)
			assert.LessOrEqual(t, msg.Progress.Accuracy, 0.95)

			e := float64(msg.Progress.Epoch)
			if 0.5+0.01*e+0.02 < 0.95 {
				assert.InDelta(t, 0.5+0.01*e, msg.Progress.Accuracy, 0.02+1e-9)
			}
			if 0.5-0.01*e-0.05 > 0.01 {
				assert.InDelta(t, 0.5-0.01*e, msg.Progress.Loss, 0.05+1e-9)
			}
		}
	}
}

func TestEmitterDeterministicWithSeed(t *testing.T) {
	_, _, a := runEmitter(t, "iris", "local", 42)
	_, _, b := runEmitter(t, "iris", "local", 42)
	_, _, c := runEmitter(t, "iris", "local", 43)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEmitterIgnoresSource(t *testing.T) {
	_, _, a := runEmitter(t, "iris", "local", 5)
	_, _, b := runEmitter(t, "iris", "hf", 5)
	assert.Equal(t, a, b)
}

func TestModelPath(t *testing.T) {
	tests := []struct {
		base string
		name string
		want string
	}{
		{base: "/tmp/trained_models", name: "My Dataset", want: "/tmp/trained_models/my_dataset"},
		{base: "/tmp/trained_models", name: "iris", want: "/tmp/trained_models/iris"},
		{base: "/tmp/trained_models/", name: "A  B C", want: "/tmp/trained_models/a__b_c"},
		{base: "/models", name: "IMDB-Reviews", want: "/models/imdb-reviews"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, training.ModelPath(tt.base, tt.name))
		})
	}
}

func TestEmitterDefaultsBaseDir(t *testing.T) {
	var out bytes.Buffer
	result, err := training.NewEmitter("", 0, rand.NewPCG(1, 1)).Run(context.Background(), &out, "My Dataset", "local")
	require.NoError(t, err)
	assert.Equal(t, training.DefaultModelBaseDir+"/my_dataset", result.ModelPath)
}

func TestEmitterObserver(t *testing.T) {
	var out bytes.Buffer
	var seen []int

	emitter := training.NewEmitter("/tmp/trained_models", 0, rand.NewPCG(3, 4))
	emitter.OnEpoch(func(e api.ProgressEvent) { seen = append(seen, e.Epoch) })

	_, err := emitter.Run(context.Background(), &out, "iris", "local")
	require.NoError(t, err)
	require.Len(t, seen, training.TotalEpochs)
	assert.Equal(t, 1, seen[0])
	assert.Equal(t, training.TotalEpochs, seen[len(seen)-1])
}

func TestEmitterPacesEpochs(t *testing.T) {
	var out bytes.Buffer
	emitter := training.NewEmitter("/tmp/trained_models", 2*time.Millisecond, rand.NewPCG(1, 2))

	start := time.Now()
	_, err := emitter.Run(context.Background(), &out, "iris", "local")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), training.TotalEpochs*2*time.Millisecond)
}

func TestEmitterStopsOnCancel(t *testing.T) {
	tests := []struct {
		name     string
		delay    time.Duration
		cancelAt int
	}{
		{name: "during long pause", delay: time.Hour, cancelAt: 1},
		{name: "mid run", delay: time.Millisecond, cancelAt: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			emitter := training.NewEmitter("/tmp/trained_models", tt.delay, rand.NewPCG(1, 2))
			emitter.OnEpoch(func(e api.ProgressEvent) {
				if e.Epoch == tt.cancelAt {
					cancel()
				}
			})

			done := make(chan error, 1)
			go func() {
				_, err := emitter.Run(ctx, &out, "iris", "local")
				done <- err
			}()

			select {
			case err := <-done:
				assert.ErrorIs(t, err, context.Canceled)
			case <-time.After(5 * time.Second):
				t.Fatal("emitter did not return after cancel")
			}

			lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
			assert.Len(t, lines, tt.cancelAt)
			assert.NotContains(t, out.String(), api.StatusCompleted)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestEmitterReportsWriteErrors(t *testing.T) {
	_, err := training.NewEmitter("", 0, rand.NewPCG(1, 2)).Run(context.Background(), failingWriter{}, "iris", "local")
	assert.ErrorContains(t, err, "broken pipe")
}

func TestEmitterFeedsTracker(t *testing.T) {
	var out bytes.Buffer
	_, err := training.NewEmitter("/tmp/trained_models", 0, rand.NewPCG(9, 9)).Run(context.Background(), &out, "My Dataset", "local")
	require.NoError(t, err)

	tracker := progress.NewTracker(training.TotalEpochs)
	require.NoError(t, progress.Consume(&out, tracker, nil))

	report := tracker.Report()
	assert.Len(t, report.TrainingStats.History, training.TotalEpochs)
	assert.Len(t, report.Logs, training.TotalEpochs+1)
	assert.Equal(t, "/tmp/trained_models/my_dataset", report.ModelPath)
}
