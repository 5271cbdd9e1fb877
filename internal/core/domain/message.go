package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// MessageType is the discriminator of a page to worker message.
type MessageType string

const (
	// MessageSkipWaiting forces the waiting worker to activate.
	MessageSkipWaiting MessageType = "SKIP_WAITING"
	// MessageGetVersion asks the worker for its generation.
	MessageGetVersion MessageType = "GET_VERSION"
)

// Message is a JSON-like payload posted to a worker.
type Message struct {
	Type MessageType
	Data map[string]any
}

// NewMessage builds a message from a decoded payload. A payload without a
// string "type" field yields a message with an empty type, which workers ignore.
func NewMessage(data map[string]any) Message {
	msg := Message{Data: data}
	if t, ok := data["type"].(string); ok {
		msg.Type = MessageType(t)
	}
	return msg
}

// DecodeMessage parses a JSON object into a Message.
func DecodeMessage(raw []byte) (Message, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Message{}, zerr.Wrap(err, ErrInvalidMessage.Error())
	}
	if data == nil {
		return Message{}, ErrInvalidMessage
	}
	return NewMessage(data), nil
}

// VersionReply is the answer to GET_VERSION.
func VersionReply(g Generation) map[string]any {
	return map[string]any{"version": g.String()}
}
