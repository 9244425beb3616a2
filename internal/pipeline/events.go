package pipeline

import "encoding/json"

// Event names persisted for each run.
const (
	EventBuildStarted   = "BuildStarted"
	EventBuildCompleted = "BuildCompleted"
	EventBuildFailed    = "BuildFailed"
)

// BuildEvent is the JSON payload stored with each event.
type BuildEvent struct {
	BuildID    string   `json:"build_id"`
	Inputs     []string `json:"inputs"`
	Output     string   `json:"output"`
	Bytes      int      `json:"bytes,omitempty"`
	Checksum   string   `json:"sha256,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (e BuildEvent) encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte("{}")
	}
	return data
}
