// Package sessiondb implements SessionStore using BadgerHold.
// Each session's conversation history is stored as one record keyed by the
// session ID, with the message list held as JSON to keep the encoding stable
// across message shape changes.
package sessiondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// sessionRecord is the stored form of a chat session.
type sessionRecord struct {
	SessionID string
	Payload   []byte // JSON-encoded []models.ConversationMessage
	UpdatedAt time.Time
}

// Store implements interfaces.SessionStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the session database at the given path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessiondb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open sessiondb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("SessionDB opened")
	return &Store{db: db, logger: logger}, nil
}

// GetHistory returns the session's messages, or an empty slice for an
// unknown session.
func (s *Store) GetHistory(_ context.Context, sessionID string) ([]models.ConversationMessage, error) {
	var rec sessionRecord
	if err := s.db.Get(sessionID, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return []models.ConversationMessage{}, nil
		}
		return nil, fmt.Errorf("failed to get session '%s': %w", sessionID, err)
	}

	var messages []models.ConversationMessage
	if err := json.Unmarshal(rec.Payload, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode session '%s': %w", sessionID, err)
	}
	return messages, nil
}

// PutHistory replaces the session's messages.
func (s *Store) PutHistory(_ context.Context, sessionID string, messages []models.ConversationMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode session '%s': %w", sessionID, err)
	}

	rec := sessionRecord{
		SessionID: sessionID,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Upsert(sessionID, &rec); err != nil {
		return fmt.Errorf("failed to put session '%s': %w", sessionID, err)
	}
	return nil
}

// DeleteHistory removes the session's messages.
func (s *Store) DeleteHistory(_ context.Context, sessionID string) error {
	if err := s.db.Delete(sessionID, sessionRecord{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete session '%s': %w", sessionID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ensure Store implements SessionStore
var _ interfaces.SessionStore = (*Store)(nil)
