package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// systemPrompt frames the model as a portfolio advisor restricted to the
// registered tools.
const systemPrompt = `You are a helpful portfolio rebalancing assistant for retail investors.

You have access to tools that can:
- Retrieve current portfolio holdings, cash balance, and total value
- Retrieve the target allocation percentages
- Calculate allocation drift between current and target
- Look up current market prices for one or more symbols
- Check whether the market is open for trading
- Generate prioritized buy/sell recommendations to restore the target allocation
- Estimate transaction costs for a set of recommendations

Guidelines:
- Use the tools to answer questions about the portfolio; never invent holdings, prices, or allocations.
- When asked about rebalancing, fetch holdings, targets, and prices first, then generate recommendations.
- Present dollar amounts and percentages rounded to two decimal places.
- Explain recommendations in plain language, including why each trade is suggested.
- If a tool reports an error, tell the user what went wrong instead of guessing.
- This is educational guidance, not professional financial advice; remind users of that when they ask for definitive decisions.`

// maxRoundsFallback is returned when the tool loop hits its round limit
// without the model producing a final answer.
const maxRoundsFallback = "I wasn't able to complete that request within the allowed number of steps. Please try again with a simpler question."

// Orchestrator runs the bounded tool-calling loop for a single chat turn.
// It owns no session state; callers pass the prior history and persist the
// returned one.
type Orchestrator struct {
	client    interfaces.ChatClient
	registry  *Registry
	maxRounds int
	logger    *common.Logger
}

var _ interfaces.Orchestrator = (*Orchestrator)(nil)

// NewOrchestrator creates an orchestrator over a chat client and tool
// registry. MaxRounds bounds the number of model calls per user turn.
func NewOrchestrator(client interfaces.ChatClient, registry *Registry, cfg common.AgentConfig, logger *common.Logger) *Orchestrator {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 8
	}
	return &Orchestrator{
		client:    client,
		registry:  registry,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// Chat appends the user message to the history, runs the model until it
// produces a text answer or the round limit is hit, and returns the final
// response together with the updated history and the tool calls made.
func (o *Orchestrator) Chat(ctx context.Context, userMessage string, history []models.ConversationMessage) (*models.ChatResult, error) {
	start := time.Now()
	history = append(history, models.ConversationMessage{
		Role:    models.RoleUser,
		Content: userMessage,
	})

	decls := o.registry.Declarations()
	var callsMade []models.ToolCallRecord

	for round := 0; round < o.maxRounds; round++ {
		reply, err := o.client.Complete(ctx, systemPrompt, toContents(history), decls)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}

		calls := functionCalls(reply)
		if len(calls) == 0 {
			response := textOf(reply)
			history = append(history, models.ConversationMessage{
				Role:    models.RoleAssistant,
				Content: response,
			})
			o.logger.Info().
				Int("rounds", round+1).
				Int("tool_calls", len(callsMade)).
				Dur("duration", time.Since(start)).
				Msg("Chat turn complete")
			return &models.ChatResult{
				Response:  response,
				History:   history,
				ToolCalls: callsMade,
			}, nil
		}

		records := make([]models.ToolCallRecord, len(calls))
		for i, call := range calls {
			id := call.ID
			if id == "" {
				id = uuid.New().String()[:8]
			}
			records[i] = models.ToolCallRecord{
				ID:        id,
				Name:      call.Name,
				Arguments: call.Args,
			}
		}
		history = append(history, models.ConversationMessage{
			Role:      models.RoleAssistant,
			Content:   textOf(reply),
			ToolCalls: records,
		})

		for _, record := range records {
			o.logger.Debug().Str("tool", record.Name).Msg("Executing tool")
			payload := o.registry.Dispatch(ctx, record.Name, record.Arguments)
			data, err := json.Marshal(payload)
			if err != nil {
				data = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
			}
			history = append(history, models.ConversationMessage{
				Role:       models.RoleTool,
				Content:    string(data),
				ToolCallID: record.ID,
				ToolName:   record.Name,
			})
			callsMade = append(callsMade, record)
		}
	}

	o.logger.Warn().
		Int("max_rounds", o.maxRounds).
		Int("tool_calls", len(callsMade)).
		Msg("Chat turn hit round limit")
	history = append(history, models.ConversationMessage{
		Role:    models.RoleAssistant,
		Content: maxRoundsFallback,
	})
	return &models.ChatResult{
		Response:  maxRoundsFallback,
		History:   history,
		ToolCalls: callsMade,
	}, nil
}
