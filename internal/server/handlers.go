package server

import (
	"net/http"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/models"
	"github.com/bobmcallan/rebal/internal/services/portfolio"
)

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the response body for POST /api/chat.
type ChatResponse struct {
	Response      string                  `json:"response"`
	FunctionCalls []models.ToolCallRecord `json:"function_calls"`
}

// handleChat handles POST /api/chat. The conversation history lives in the
// session store keyed by the cookie session; each turn loads it, runs the
// orchestrator, and persists the updated history.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "No message provided")
		return
	}

	if s.app.Orchestrator == nil {
		WriteError(w, http.StatusServiceUnavailable, "Chat is unavailable: no model configured")
		return
	}

	ctx := r.Context()
	sessionID := common.SessionIDFromContext(ctx)

	history, err := s.app.SessionStore.GetHistory(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load conversation history")
		WriteError(w, http.StatusInternalServerError, "Failed to load conversation history")
		return
	}

	result, err := s.app.Orchestrator.Chat(ctx, req.Message, history)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Chat turn failed")
		WriteError(w, http.StatusBadGateway, "Chat completion failed: "+err.Error())
		return
	}

	if err := s.app.SessionStore.PutHistory(ctx, sessionID, result.History); err != nil {
		// The user still gets their answer; only continuity is lost.
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist conversation history")
	}

	calls := result.ToolCalls
	if calls == nil {
		calls = []models.ToolCallRecord{}
	}
	WriteJSON(w, http.StatusOK, ChatResponse{
		Response:      result.Response,
		FunctionCalls: calls,
	})
}

// handleReset handles POST /api/reset, discarding the session's history.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	sessionID := common.SessionIDFromContext(ctx)

	if err := s.app.SessionStore.DeleteHistory(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to reset conversation")
		WriteError(w, http.StatusInternalServerError, "Failed to reset conversation")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Conversation reset",
	})
}

// handlePortfolio handles GET /api/portfolio, returning holdings, targets,
// and drift in one payload.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	holdings := s.app.PortfolioService.GetHoldings(ctx)
	targets := s.app.PortfolioService.GetTargetAllocation(ctx)
	drift := s.app.PortfolioService.CalculateDrift(ctx)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"targets":  targets,
		"drift":    drift,
	})
}

// handlePortfolioChart handles GET /api/portfolio/chart, rendering the
// per-symbol allocation drift as a PNG bar chart.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	drift := s.app.PortfolioService.CalculateDrift(r.Context())
	if drift.Status != models.StatusSuccess {
		WriteError(w, http.StatusNotFound, drift.Message)
		return
	}

	png, err := portfolio.RenderDriftChart(drift.Entries)
	if err != nil {
		s.logger.Error().Err(err).Msg("Drift chart render failed")
		WriteError(w, http.StatusInternalServerError, "Chart render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
