package portfoliofs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(common.NewSilentLogger(), filepath.Join(t.TempDir(), "portfolio.json"))
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.PortfolioDocument{
		Holdings: []models.Holding{
			{Symbol: "AAPL", Shares: 50, CurrentPrice: 178.50},
			{Symbol: "VTI", Shares: 30, CurrentPrice: 245.60},
		},
		Cash: 5000.0,
		TargetAllocation: map[string]float64{
			"AAPL": 20.0,
			"VTI":  30.0,
		},
	}

	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Holdings) != 2 {
		t.Errorf("expected 2 holdings, got %d", len(loaded.Holdings))
	}
	if loaded.Cash != 5000.0 {
		t.Errorf("expected cash 5000.00, got %.2f", loaded.Cash)
	}
	if loaded.TargetAllocation["VTI"] != 30.0 {
		t.Errorf("expected VTI target 30.0, got %.1f", loaded.TargetAllocation["VTI"])
	}
	if loaded.TotalValue() != doc.TotalValue() {
		t.Errorf("total value changed across round trip: %.2f vs %.2f", loaded.TotalValue(), doc.TotalValue())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestLoad_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store := NewStore(common.NewSilentLogger(), path)
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestLoad_NilTargetAllocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	content := `{"holdings": [{"symbol": "AAPL", "shares": 1, "current_price": 100}], "cash": 0}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store := NewStore(common.NewSilentLogger(), path)
	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.TargetAllocation == nil {
		t.Error("expected non-nil target allocation map")
	}
}

func TestSave_CreatesDirectoryAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(common.NewSilentLogger(), filepath.Join(dir, "nested", "portfolio.json"))
	ctx := context.Background()

	first := &models.PortfolioDocument{Cash: 1.0, TargetAllocation: map[string]float64{}}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := &models.PortfolioDocument{Cash: 2.0, TargetAllocation: map[string]float64{}}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Cash != 2.0 {
		t.Errorf("expected latest document, got cash %.1f", loaded.Cash)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the document file, found %d entries", len(entries))
	}
}
