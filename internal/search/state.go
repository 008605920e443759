package search

import "sync"

// State — текущее состояние поиска/фильтра (аналог экранного стора).
type State struct {
	mu     sync.RWMutex
	search string
	field  Field
}

func NewState() *State {
	return &State{}
}

// Get возвращает текущую пару (подстрока, поле).
func (s *State) Get() (string, Field) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.search, s.field
}

// UpdateSearch меняет подстроку поиска.
func (s *State) UpdateSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search = search
}

// UpdateField меняет поле поиска.
func (s *State) UpdateField(field Field) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.field = field
}

// Clear сбрасывает поиск и фильтр.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search = ""
	s.field = FieldAny
}
