package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHappyPath(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())

	for _, step := range []State{StateReconciling, StateChecking, StateSubmitting, StateCommitted} {
		require.NoError(t, s.Transition(step))
	}
	assert.Equal(t, StateCommitted, s.State())
}

func TestSessionRejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		bad  State
	}{
		{"soumission sans vérification", nil, StateSubmitting},
		{"commit sans soumission", []State{StateReconciling, StateChecking}, StateCommitted},
		{"retour arrière depuis la soumission", []State{StateReconciling, StateChecking, StateSubmitting}, StateChecking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			for _, step := range tt.path {
				require.NoError(t, s.Transition(step))
			}
			assert.Error(t, s.Transition(tt.bad))
		})
	}
}

func TestSessionCancelBeforeSubmit(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Transition(StateReconciling))
	require.NoError(t, s.Transition(StateChecking))

	// Abandon sans effet de bord : rien n'a été réservé
	require.NoError(t, s.Cancel())
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionCannotCancelWhileSubmitting(t *testing.T) {
	s := NewSession()
	for _, step := range []State{StateReconciling, StateChecking, StateSubmitting} {
		require.NoError(t, s.Transition(step))
	}
	assert.Error(t, s.Cancel())
}

func TestSessionRejectedRequiresReverification(t *testing.T) {
	s := NewSession()
	for _, step := range []State{StateReconciling, StateChecking, StateRejected} {
		require.NoError(t, s.Transition(step))
	}

	// Pas de re-soumission directe : on repart de la réconciliation
	assert.Error(t, s.Transition(StateSubmitting))
	require.NoError(t, s.Transition(StateReconciling))
}

func TestSessionCommittedIsTerminal(t *testing.T) {
	s := NewSession()
	for _, step := range []State{StateReconciling, StateChecking, StateSubmitting, StateCommitted} {
		require.NoError(t, s.Transition(step))
	}
	for _, to := range []State{StateIdle, StateReconciling, StateChecking, StateSubmitting, StateRejected, StateFailed} {
		assert.Error(t, s.Transition(to))
	}
}
