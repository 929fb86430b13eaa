package ai

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/dasgddadqw231/shindy-backend/internal/config"
	"github.com/dasgddadqw231/shindy-backend/internal/service/session"
)

// Service is the generative reply provider backed by an ark chat model.
type Service struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyLimit int
}

// NewService compiles the prompt chain over the configured model.
func NewService(ctx context.Context, cfg config.AIConfig, historyLimit int) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	if historyLimit < 1 {
		historyLimit = 1
	}

	return &Service{chain: runnable, historyLimit: historyLimit}, nil
}

// Start opens a conversation handle carrying the persona instruction. The
// instruction is fixed for the conversation's lifetime; Send carries only
// user text.
func (s *Service) Start(_ context.Context, instruction string) (session.Conversation, error) {
	return &Conversation{svc: s, instruction: instruction}, nil
}

// Conversation is one provider-side chat bound to a persona instruction,
// keeping a rolling history window across turns.
type Conversation struct {
	svc         *Service
	instruction string

	mu      sync.Mutex
	history []*schema.Message
}

// Send generates the next persona reply for the user text.
func (c *Conversation) Send(ctx context.Context, userText string) (string, error) {
	c.mu.Lock()
	input := map[string]any{
		"system":  c.instruction,
		"history": c.window(),
		"query":   userText,
	}
	c.mu.Unlock()

	response, err := c.svc.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run reply chain: %w", err)
	}

	c.mu.Lock()
	c.history = append(c.history,
		schema.UserMessage(userText),
		schema.AssistantMessage(response.Content, nil),
	)
	c.mu.Unlock()

	log.Printf("[ai] generated reply, length=%d", len(response.Content))
	return response.Content, nil
}

// window returns the most recent history messages. Caller holds the lock.
func (c *Conversation) window() []*schema.Message {
	limit := c.svc.historyLimit * 2
	if len(c.history) <= limit {
		return append([]*schema.Message(nil), c.history...)
	}
	return append([]*schema.Message(nil), c.history[len(c.history)-limit:]...)
}

// QuickComfort is the stateless one-shot used by the vent feature. It shares
// no state with any conversation.
func (s *Service) QuickComfort(ctx context.Context, mood string) (string, error) {
	input := map[string]any{
		"system":  comfortInstruction,
		"history": []*schema.Message(nil),
		"query":   fmt.Sprintf("User feels: %s", mood),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run comfort chain: %w", err)
	}
	if response.Content == "" {
		return ComfortFallback, nil
	}
	return response.Content, nil
}

const comfortInstruction = "기혼자에게 어울리는 아주 짧은(한 문장) 따뜻한 한국어 위로를 건네세요. 설교나 충고 없이 공감만 전하세요."

// ComfortFallback is returned when the one-shot call fails or comes back empty.
const ComfortFallback = "오늘 하루도 고생 많으셨어요."
