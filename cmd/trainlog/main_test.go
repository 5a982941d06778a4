package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"trainsim/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "TRAINSIM_RUN_MAIN"

func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func runTrainlog(t *testing.T, stdin string) (api.TrainingReport, string, int) {
	t.Helper()
	c := exec.Command(os.Args[0])
	c.Env = append(os.Environ(), runMainEnv+"=1")
	c.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	code := 0
	err := c.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}

	var report api.TrainingReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	return report, stderr.String(), code
}

func TestTrainlogCompleteStream(t *testing.T) {
	stream := `{"type":"training_update","epoch":1,"loss":0.48,"accuracy":0.52}
{"type":"training_update","epoch":2,"loss":0.47,"accuracy":0.53}
{"status":"completed","model_path":"/tmp/trained_models/iris","final_accuracy":0.53,"final_loss":0.47}
`
	report, stderr, code := runTrainlog(t, stream)
	assert.Equal(t, 0, code)
	assert.Equal(t, "/tmp/trained_models/iris", report.ModelPath)
	assert.Equal(t, 2, report.TrainingStats.CurrentEpoch)
	assert.Equal(t, 50, report.TrainingStats.TotalEpochs)
	assert.Len(t, report.Logs, 3)
	assert.Contains(t, stderr, "Epoch 2/50 - Loss: 0.4700, Accuracy: 0.5300")
}

func TestTrainlogUsageErrorStream(t *testing.T) {
	report, _, code := runTrainlog(t, `{"error":"Usage: train <dataset_name> <dataset_source>"}`+"\n")
	assert.Equal(t, 1, code)
	assert.Empty(t, report.ModelPath)
	assert.Equal(t, []string{"Error: Usage: train <dataset_name> <dataset_source>"}, report.Logs)
}

func TestTrainlogIncompleteStream(t *testing.T) {
	stream := `{"type":"training_update","epoch":1,"loss":0.48,"accuracy":0.52}
{"type":"training_update","epoch":2,"loss":0.47,"accuracy":0.53}
`
	report, stderr, code := runTrainlog(t, stream)
	assert.Equal(t, 1, code)
	assert.Empty(t, report.ModelPath)
	assert.Equal(t, 2, report.TrainingStats.CurrentEpoch)
	assert.Equal(t, 0.47, report.TrainingStats.Loss)
	require.Len(t, report.TrainingStats.History, 2)
	assert.Equal(t, 2, report.TrainingStats.History[1].Epoch)
	assert.Len(t, report.Logs, 2)
	assert.Contains(t, stderr, "stream ended before completion")
}
