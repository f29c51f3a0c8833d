package envelope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Topic string `json:"topic"`
}

func TestJobRoundTrip(t *testing.T) {
	e, err := NewJob("trending.record", payload{Topic: "#go"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Zero(t, e.Attempt)

	raw, err := e.Retry(errors.New("boom")).Marshal()
	require.NoError(t, err)

	back, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, 1, back.Attempt)
	assert.Equal(t, "boom", back.LastError)

	p, err := ParseData[payload](back)
	require.NoError(t, err)
	assert.Equal(t, "#go", p.Topic)
}
