package gemini

import (
	"context"
	"testing"

	"github.com/bobmcallan/rebal/internal/common"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), ""); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewClient_Options(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key",
		WithModel("gemini-2.5-pro"),
		WithLogger(common.NewSilentLogger()),
		WithRateLimit(5),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "gemini-2.5-pro" {
		t.Errorf("expected model override, got %s", client.Model())
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key",
		WithLogger(common.NewSilentLogger()),
		WithModel(""), // empty override is ignored
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != defaultModel {
		t.Errorf("expected default model, got %s", client.Model())
	}
}
