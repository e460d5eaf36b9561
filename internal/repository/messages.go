package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/model"
)

var ErrMessageNotFound = errors.New(config.ErrMessageNotFound)

type MessageStore interface {
	List() ([]model.ContactMessage, error)
	Add(msg model.ContactMessage) (model.ContactMessage, error)
	MarkRead(id string) (model.ContactMessage, error)
	Delete(id string) error
}

// MessageRepository keeps the contact inbox as one JSON list under a fixed
// key, newest first.
type MessageRepository struct { // implements MessageStore
	mu  sync.Mutex
	kv  db.KV
	key string

	now func() time.Time
}

func NewMessageRepository(kv db.KV, key string) *MessageRepository {
	return &MessageRepository{
		kv:  kv,
		key: key,
		now: time.Now,
	}
}

func (r *MessageRepository) List() ([]model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Add stores msg with a fresh id, unread, stamped with the current time.
func (r *MessageRepository) Add(msg model.ContactMessage) (model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return msg, err
	}

	msg.ID = uuid.NewString()
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Read = false
	msg.CreatedAt = r.now().UTC()

	if err := r.store(append([]model.ContactMessage{msg}, messages...)); err != nil {
		return msg, err
	}
	repoLogger.Info().Str("id", msg.ID).Msg("Contact message received")
	return msg, nil
}

func (r *MessageRepository) MarkRead(id string) (model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return model.ContactMessage{}, err
	}
	i := slices.IndexFunc(messages, func(m model.ContactMessage) bool { return m.ID == id })
	if i < 0 {
		return model.ContactMessage{}, ErrMessageNotFound
	}
	if messages[i].Read {
		return messages[i], nil
	}

	messages[i].Read = true
	return messages[i], r.store(messages)
}

func (r *MessageRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(messages, func(m model.ContactMessage) bool { return m.ID == id })
	if len(kept) == len(messages) {
		return ErrMessageNotFound
	}
	return r.store(kept)
}

// load returns an empty inbox when nothing is stored. Unlike the resume, an
// unreadable inbox is an error: overwriting it would lose messages.
func (r *MessageRepository) load() ([]model.ContactMessage, error) {
	data, found, err := r.kv.Load(r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if !found {
		return []model.ContactMessage{}, nil
	}

	var messages []model.ContactMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		repoLogger.Error().Err(err).Str("key", r.key).Msg(config.ErrLoadMessages)
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	if messages == nil {
		messages = []model.ContactMessage{}
	}
	return messages, nil
}

func (r *MessageRepository) store(messages []model.ContactMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	if err := r.kv.Put(r.key, data); err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}
	return nil
}
