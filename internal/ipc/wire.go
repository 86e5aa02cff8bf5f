// Package ipc speaks the wardrobe daemon's wire protocol: one JSON
// frame per line over a Unix domain socket. Command traffic uses one
// connection per request; event traffic switches a dedicated connection
// into push mode.
package ipc

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/progress"
)

// DefaultSocketPath returns the daemon's socket location,
// ~/.config/wardrobe/daemon.sock.
func DefaultSocketPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/wardrobe-daemon.sock"
	}
	return filepath.Join(home, ".config", "wardrobe", "daemon.sock")
}

// Request is one command frame sent to the daemon.
type Request struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response is the daemon's reply envelope. Exactly one of Value and
// Error is meaningful, discriminated by OK.
type Response struct {
	OK    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
	Error *apperr.Error   `json:"error,omitempty"`
}

// EventProgress is the only push event kind the daemon currently emits.
const EventProgress = "progress"

// EventFrame is one push message on a subscribed connection. Progress
// fields sit inline next to the discriminator.
type EventFrame struct {
	Event string `json:"event"`
	progress.Update
}

// Encode serializes a request to JSON.
func (r *Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeResponse deserializes a response envelope. Error codes outside
// the known set are normalized to UNKNOWN here so nothing downstream
// sees an open set.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		resp.Error.Normalize()
	}
	return &resp, nil
}

// DecodeEventFrame deserializes one push frame.
func DecodeEventFrame(data []byte) (*EventFrame, error) {
	var frame EventFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, err
	}
	if frame.Err != nil {
		frame.Err.Normalize()
	}
	return &frame, nil
}
