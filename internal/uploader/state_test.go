package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTransitions(t *testing.T) {
	t.Run("should allow the documented lifecycle", func(t *testing.T) {
		assert.True(t, StateQueued.canTransitionTo(StateUploading))
		assert.True(t, StateUploading.canTransitionTo(StatePaused))
		assert.True(t, StatePaused.canTransitionTo(StateUploading))
		assert.True(t, StateUploading.canTransitionTo(StateCompleted))
		assert.True(t, StateUploading.canTransitionTo(StateFailed))
		assert.True(t, StateUploading.canTransitionTo(StateCancelled))
		assert.True(t, StatePaused.canTransitionTo(StateCancelled))
		assert.True(t, StateFailed.canTransitionTo(StateQueued))
	})

	t.Run("should keep terminal states terminal", func(t *testing.T) {
		assert.False(t, StateCompleted.canTransitionTo(StateUploading))
		assert.False(t, StateCompleted.canTransitionTo(StateQueued))
		assert.False(t, StateCancelled.canTransitionTo(StateUploading))
		assert.False(t, StateCancelled.canTransitionTo(StateQueued))
		assert.False(t, StateFailed.canTransitionTo(StateUploading))
	})

	t.Run("should reject skipping states", func(t *testing.T) {
		assert.False(t, StateQueued.canTransitionTo(StateCompleted))
		assert.False(t, StateQueued.canTransitionTo(StatePaused))
		assert.False(t, StatePaused.canTransitionTo(StateCompleted))
	})
}

func TestTransferTransition(t *testing.T) {
	t.Run("should fail when another actor moved the state first", func(t *testing.T) {
		// Arrange
		tr := newTransfer(Plan{}, nil, 0)
		tr.state = StateCancelled

		// Act / Assert
		assert.False(t, tr.transition(StateQueued, StateUploading))
		assert.Equal(t, StateCancelled, tr.currentState())
	})
}
