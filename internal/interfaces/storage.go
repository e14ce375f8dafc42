package interfaces

import (
	"context"

	"github.com/bobmcallan/rebal/internal/models"
)

// PortfolioStore reads and writes the flat JSON portfolio document.
type PortfolioStore interface {
	// Load reads the document from disk. Returns an error when the file is
	// absent or unparseable; callers decide how to surface it.
	Load(ctx context.Context) (*models.PortfolioDocument, error)

	// Save replaces the document atomically.
	Save(ctx context.Context, doc *models.PortfolioDocument) error

	// Path returns the backing file path.
	Path() string
}

// SessionStore persists per-session conversation histories.
type SessionStore interface {
	// GetHistory returns the session's messages, or an empty slice when the
	// session has no stored history.
	GetHistory(ctx context.Context, sessionID string) ([]models.ConversationMessage, error)

	// PutHistory replaces the session's messages.
	PutHistory(ctx context.Context, sessionID string, messages []models.ConversationMessage) error

	// DeleteHistory removes the session's messages. Deleting a session that
	// does not exist is not an error.
	DeleteHistory(ctx context.Context, sessionID string) error

	Close() error
}
