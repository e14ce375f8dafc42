// Package portfoliofs implements PortfolioStore over a flat JSON document.
// The document is read fresh on every Load; the store holds no cache and no
// in-memory state beyond the file path.
package portfoliofs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// Store provides file-based JSON storage for the portfolio document.
type Store struct {
	path   string
	logger *common.Logger
}

// NewStore creates a portfolio document store at the given file path.
// The file itself is not required to exist; Load reports its absence.
func NewStore(logger *common.Logger, path string) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the portfolio document.
func (s *Store) Load(_ context.Context) (*models.PortfolioDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio document %s: %w", s.path, err)
	}

	var doc models.PortfolioDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio document %s: %w", s.path, err)
	}

	if doc.Holdings == nil {
		doc.Holdings = []models.Holding{}
	}
	if doc.TargetAllocation == nil {
		doc.TargetAllocation = map[string]float64{}
	}

	return &doc, nil
}

// Save replaces the portfolio document atomically via a temp file rename.
func (s *Store) Save(_ context.Context, doc *models.PortfolioDocument) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio document: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-portfolio-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace portfolio document: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("holdings", len(doc.Holdings)).Msg("Portfolio document saved")
	return nil
}

// Ensure Store implements PortfolioStore
var _ interfaces.PortfolioStore = (*Store)(nil)
