package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit_NilChannel(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(nil, DoneEvent{})
	})
}

func TestEmit_Delivers(t *testing.T) {
	events := make(chan Event, 2)

	Emit(events, RoutedEvent{Agent: "coder"})
	Emit(events, TextEvent{Agent: "coder", Text: "hi"})

	assert.Equal(t, RoutedEvent{Agent: "coder"}, <-events)
	assert.Equal(t, TextEvent{Agent: "coder", Text: "hi"}, <-events)
}
