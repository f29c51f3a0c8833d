// Package envelope is the wire format of side-effect retry jobs.
package envelope

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Envelope struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Attempt   int             `json:"attempt"`
	Data      json.RawMessage `json:"data,omitempty"`
	LastError string          `json:"last_error,omitempty"`
	Timestamp int64           `json:"ts"`
}

func New(action string) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Action:    action,
		Timestamp: time.Now().UnixMilli(),
	}
}

func NewJob(action string, data any) (Envelope, error) {
	e := New(action)
	raw, err := json.Marshal(data)
	if err != nil {
		return e, err
	}
	e.Data = raw
	return e, nil
}

// Retry returns a copy of e for the next attempt, remembering why the
// previous one failed.
func (e Envelope) Retry(cause error) Envelope {
	e.Attempt++
	e.Timestamp = time.Now().UnixMilli()
	if cause != nil {
		e.LastError = cause.Error()
	}
	return e
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func Unmarshal(data []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(data, &e)
	return e, err
}

func ParseData[T any](e Envelope) (T, error) {
	var v T
	err := json.Unmarshal(e.Data, &v)
	return v, err
}
