package model

import "time"

const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusFailed  = "failed"
)

// CommandResult is the outcome of a single remote command run, as returned
// by the command submission endpoint. Output holds stdout split into lines
// on success, Error the remote error text on failure - never both.
type CommandResult struct {
	IP      string   `json:"ip"`
	Command string   `json:"command"`
	Output  []string `json:"output,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Failed indicates the remote command returned an error.
func (r *CommandResult) Failed() bool {
	return r.Error != ""
}

// Execution is one entry of the server-side command execution history,
// joined with its asset and group attributes.
type Execution struct {
	ID         int       `json:"command_id"`
	Command    string    `json:"command"`
	Status     string    `json:"status"`
	Output     string    `json:"output"`
	Duration   string    `json:"duration"`
	Error      string    `json:"error"`
	CreatedAt  time.Time `json:"created_at"`
	Asset      string    `json:"asset"`
	AssetIP    string    `json:"assetIp"`
	Group      string    `json:"group"`
	GroupColor string    `json:"groupColor"`
}
