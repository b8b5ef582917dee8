package checkout

import (
	"fmt"
	"sync"
)

// State : état d'une session de checkout. La machine est explicite et
// indépendante de toute couche de rendu, l'UI ne fait que la refléter.
type State string

const (
	StateIdle        State = "idle"
	StateReconciling State = "reconciling"
	StateChecking    State = "checking"
	StateSubmitting  State = "submitting"
	StateCommitted   State = "committed"
	StateRejected    State = "rejected"
	StateFailed      State = "failed"
)

// Transitions autorisées. Un checkout peut être abandonné (retour à idle) à
// tout moment avant la soumission — rien n'a été réservé, rien à nettoyer.
// Committed est terminal. Rejected et Failed exigent une re-vérification
// complète avant toute nouvelle tentative.
var transitions = map[State][]State{
	StateIdle:        {StateReconciling},
	StateReconciling: {StateChecking, StateFailed, StateIdle},
	StateChecking:    {StateSubmitting, StateRejected, StateFailed, StateIdle},
	StateSubmitting:  {StateCommitted, StateRejected, StateFailed},
	StateRejected:    {StateReconciling, StateIdle},
	StateFailed:      {StateReconciling, StateIdle},
	StateCommitted:   {},
}

// Session : machine à états d'un checkout, sûre pour un usage concurrent.
type Session struct {
	mu    sync.Mutex
	state State
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transition passe à l'état cible si la machine l'autorise.
func (s *Session) Transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, allowed := range transitions[s.state] {
		if allowed == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("transition interdite: %s → %s", s.state, to)
}

// Cancel abandonne la session si elle n'a pas encore été soumise.
func (s *Session) Cancel() error {
	return s.Transition(StateIdle)
}
