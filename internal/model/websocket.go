package model

// WebSocket message types
const (
	WSMessageTypeGenerate = "generate"
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSGenerateMessage is sent by the client to start a job
type WSGenerateMessage struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// WSProgressMessage represents a job state transition
type WSProgressMessage struct {
	Type  string   `json:"type"`
	JobID string   `json:"jobId"`
	State JobState `json:"state"`
	Step  string   `json:"step,omitempty"`
}

// WSCompleteMessage represents job completion
type WSCompleteMessage struct {
	Type   string            `json:"type"`
	JobID  string            `json:"jobId"`
	Result *GenerateResponse `json:"result"`
}

// WSErrorMessage represents an error
type WSErrorMessage struct {
	Type  string      `json:"type"`
	JobID string      `json:"jobId,omitempty"`
	Error interface{} `json:"error"`
}
