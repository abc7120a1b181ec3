package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_CannedResponse(t *testing.T) {
	m := NewMock()
	m.AddResponse("hello", "hi there")

	resp, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)
}

func TestMock_UnknownPromptEchoes(t *testing.T) {
	m := NewMock()
	resp, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "anything"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "anything")
}

func TestMock_FailWith(t *testing.T) {
	m := NewMock()
	boom := errors.New("boom")
	m.FailWith(boom)
	_, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "x"}},
	})
	assert.ErrorIs(t, err, boom)
}

func TestMock_EmptyMessagesIsError(t *testing.T) {
	_, err := NewMock().Complete(context.Background(), Request{})
	assert.Error(t, err)
}
