package api

const (
	TrainingUpdate  = "training_update"
	StatusCompleted = "completed"
)

// ProgressEvent is written once per simulated epoch.
type ProgressEvent struct {
	Type     string  `json:"type"`
	Epoch    int     `json:"epoch"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

// CompletionEvent is written exactly once, after the last ProgressEvent.
type CompletionEvent struct {
	Status        string  `json:"status"`
	ModelPath     string  `json:"model_path"`
	FinalAccuracy float64 `json:"final_accuracy"`
	FinalLoss     float64 `json:"final_loss"`
}

type ErrorEvent struct {
	Error string `json:"error"`
}

type EpochStats struct {
	Epoch    int     `json:"epoch"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

type TrainingStats struct {
	CurrentEpoch int          `json:"currentEpoch"`
	TotalEpochs  int          `json:"totalEpochs"`
	Loss         float64      `json:"loss"`
	Accuracy     float64      `json:"accuracy"`
	History      []EpochStats `json:"history"`
}

type TrainingReport struct {
	TrainingStats TrainingStats `json:"trainingStats"`
	ModelPath     string        `json:"modelPath"`
	Logs          []string      `json:"logs"`
}
