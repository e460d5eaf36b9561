package editor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type SessionID string

type Repository interface {
	Create(e Editor) (SessionID, error)
	Get(id SessionID) (Editor, error)
	Delete(id SessionID) error
}

type MemoryRepository struct {
	sessions sync.Map
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Create(e Editor) (SessionID, error) {
	id := SessionID(uuid.New().String())
	m.sessions.Store(id, e)
	return id, nil
}

func (m *MemoryRepository) Get(id SessionID) (Editor, error) {
	if e, ok := m.sessions.Load(id); ok {
		return e.(Editor), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

func (m *MemoryRepository) Delete(id SessionID) error {
	m.sessions.Delete(id)
	return nil
}
