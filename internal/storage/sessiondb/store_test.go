package sessiondb

import (
	"context"
	"testing"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleHistory() []models.ConversationMessage {
	return []models.ConversationMessage{
		{Role: models.RoleUser, Content: "Is my portfolio balanced?"},
		{
			Role: models.RoleAssistant,
			ToolCalls: []models.ToolCallRecord{
				{ID: "abc123", Name: "calculate_allocation_drift", Arguments: map[string]any{}},
			},
		},
		{
			Role:       models.RoleTool,
			Content:    `{"AAPL":{"current_allocation":33.06,"target_allocation":50,"drift":-16.94,"drift_dollars":-915}}`,
			ToolCallID: "abc123",
			ToolName:   "calculate_allocation_drift",
		},
		{Role: models.RoleAssistant, Content: "Your AAPL position is underweight by about 17 points."},
	}
}

func TestGetHistory_UnknownSession(t *testing.T) {
	store := newTestStore(t)

	history, err := store.GetHistory(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d messages", len(history))
	}
}

func TestPutAndGetHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutHistory(ctx, "s1", sampleHistory()); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	history, err := store.GetHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(history))
	}
	if history[0].Role != models.RoleUser {
		t.Errorf("expected first message role user, got %s", history[0].Role)
	}
	if history[1].ToolCalls[0].Name != "calculate_allocation_drift" {
		t.Errorf("tool call name lost: %s", history[1].ToolCalls[0].Name)
	}
	if history[2].ToolCallID != "abc123" {
		t.Errorf("tool call id lost: %s", history[2].ToolCallID)
	}
}

func TestPutHistory_Replaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutHistory(ctx, "s1", sampleHistory()); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	short := []models.ConversationMessage{{Role: models.RoleUser, Content: "reset me"}}
	if err := store.PutHistory(ctx, "s1", short); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	history, err := store.GetHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected replacement history of 1 message, got %d", len(history))
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutHistory(ctx, "s1", sampleHistory()); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	other, err := store.GetHistory(ctx, "s2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected s2 to be empty, got %d messages", len(other))
	}
}

func TestDeleteHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutHistory(ctx, "s1", sampleHistory()); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.DeleteHistory(ctx, "s1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	history, err := store.GetHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after delete, got %d", len(history))
	}

	// Deleting a session that never existed is not an error.
	if err := store.DeleteHistory(ctx, "ghost"); err != nil {
		t.Errorf("delete of unknown session should not error: %v", err)
	}
}
