package db

import (
	"bytes"
	"sync"
)

// Memory is a KV that lives as long as the process.
type Memory struct {
	values sync.Map
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Put(key string, value []byte) error {
	m.values.Store(key, bytes.Clone(value))
	return nil
}

func (m *Memory) Load(key string) ([]byte, bool, error) {
	if v, ok := m.values.Load(key); ok {
		return bytes.Clone(v.([]byte)), true, nil
	}
	return nil, false, nil
}

func (m *Memory) Delete(key string) error {
	m.values.Delete(key)
	return nil
}
