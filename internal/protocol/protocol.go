// Package protocol defines the messages pushed to the settings page over WebSocket.
package protocol

import (
	"mousejitter/internal/jitter"
	"mousejitter/internal/state"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeStatus carries the button and activity flags; sent on every change
	TypeStatus MessageType = "status"

	// TypeApplied is sent after new settings were stored
	TypeApplied MessageType = "applied"

	// TypeShutdown is sent once when the application stops running
	TypeShutdown MessageType = "shutdown"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// StatusPayload is the payload for TypeStatus
type StatusPayload struct {
	State state.Snapshot `json:"state"`
	Stats jitter.Stats   `json:"stats"`
}

// AppliedPayload is the payload for TypeApplied
type AppliedPayload struct {
	Horizontal   int     `json:"horizontal"`
	Vertical     int     `json:"vertical"`
	DelaySeconds float64 `json:"delay"`
}
