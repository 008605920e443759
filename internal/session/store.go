// session хранит текущую сессию клиента: токены и профиль пользователя.
//
// Store — явная зависимость HTTP-клиента (никакого скрытого глобального
// состояния): login/refresh пишут через Set, logout и невосстановимая
// ошибка refresh — через Clear. Смена состояния синхронна и сразу видна
// всем последующим запросам.
package session

import (
	"sync"

	"github.com/pribylovaa/sciarticles/internal/models"
)

// Store — контракт хранилища сессии.
type Store interface {
	// Get возвращает копию текущей сессии и признак её наличия.
	Get() (*models.Session, bool)
	// Set заменяет сессию целиком (login/register/refresh).
	Set(s *models.Session)
	// Clear уничтожает сессию (logout).
	Clear()
}

// Memory — потокобезопасное хранилище в памяти.
type Memory struct {
	mu  sync.RWMutex
	cur *models.Session
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (*models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cur == nil {
		return nil, false
	}

	cp := *m.cur
	return &cp, true
}

func (m *Memory) Set(s *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s == nil {
		m.cur = nil
		return
	}

	cp := *s
	m.cur = &cp
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = nil
}
