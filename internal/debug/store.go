package debug

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/buxx/rollgui2-sub000/internal/engine"
)

// transitionsKept - сколько последних смен экрана хранит Store.
const transitionsKept = 32

// Transition - смена активного движка между двумя тиками.
type Transition struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Frame int64  `json:"frame"`
}

// Store хранит последний снимок хоста. Пишет цикл тиков, читает HTTP сервер.
type Store struct {
	mu          deadlock.RWMutex
	last        engine.Snapshot
	published   int64
	transitions []Transition

	hub *Hub
}

func NewStore() *Store {
	return &Store{hub: NewHub()}
}

// Hub - подписчики живого потока снимков.
func (s *Store) Hub() *Hub {
	return s.hub
}

// Publish реализует engine.Publisher.
func (s *Store) Publish(snap engine.Snapshot) {
	s.record(snap)
	s.hub.Broadcast(snap)
}

func (s *Store) record(snap engine.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.published > 0 && s.last.Engine != snap.Engine {
		s.transitions = append(s.transitions, Transition{From: s.last.Engine, To: snap.Engine, Frame: snap.Frame})
		if over := len(s.transitions) - transitionsKept; over > 0 {
			s.transitions = append(s.transitions[:0], s.transitions[over:]...)
		}
	}
	s.last = snap
	s.published++
}

// Last - последний снимок и был ли он вообще.
func (s *Store) Last() (engine.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.published > 0
}

func (s *Store) Published() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published
}

// Transitions - копия последних смен экрана, старые первыми.
func (s *Store) Transitions() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}
