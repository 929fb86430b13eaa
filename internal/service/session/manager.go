package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dasgddadqw231/shindy-backend/internal/model/chat"
	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/profile"
)

var (
	ErrNoActiveSession   = errors.New("no active session")
	ErrEmptyInput        = errors.New("message text is required")
	ErrReplyPending      = errors.New("a reply is still pending")
	ErrSessionSuperseded = errors.New("session superseded by persona switch")
)

// DefaultFallback is appended as the persona turn when the reply provider
// fails; conversational continuity wins over surfacing transport errors.
const DefaultFallback = "잠시 연결 상태가 좋지 않네요. 다시 시도해주세요."

// Conversation is one provider-side chat handle. The persona instruction is
// supplied once at Start; Send carries only the user text.
type Conversation interface {
	Send(ctx context.Context, userText string) (string, error)
}

// ReplyProvider is the external generative backend.
type ReplyProvider interface {
	Start(ctx context.Context, instruction string) (Conversation, error)
}

// InstructionBuilder renders the persona configuration sent to the provider
// at session initialization.
type InstructionBuilder func(p persona.Persona, prof profile.Profile) string

// Manager owns the single live coach conversation. Selecting a persona
// replaces the session wholesale; the previous transcript is discarded.
// Entitlement is the caller's concern: a locked persona must be filtered
// out before SelectPersona is reached.
type Manager struct {
	provider ReplyProvider
	instruct InstructionBuilder
	fallback string

	mu            sync.Mutex
	session       *chat.Session
	persona       persona.Persona
	turns         []chat.Turn
	conv          Conversation
	awaiting      bool
	epoch         uint64
	cancelPending context.CancelFunc
}

// NewManager wires the session state machine to a reply provider. provider
// may be nil when AI credentials are absent; every reply is then the
// fallback text.
func NewManager(provider ReplyProvider, instruct InstructionBuilder, fallback string) *Manager {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Manager{provider: provider, instruct: instruct, fallback: fallback}
}

// SelectPersona enters a fresh session for the coach, seeded with the
// coach's greeting. Re-selecting the active coach is a no-op so an ongoing
// conversation is never reset by accident. A switch cancels interest in any
// outstanding reply.
func (m *Manager) SelectPersona(ctx context.Context, p persona.Persona, prof profile.Profile) (chat.Session, []chat.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil && m.persona.ID == p.ID {
		return *m.session, m.copyTurns(), nil
	}

	// Abandon the outstanding provider call, if any. Its reply will be
	// discarded when it sees the epoch change.
	m.epoch++
	if m.cancelPending != nil {
		m.cancelPending()
		m.cancelPending = nil
	}
	m.awaiting = false

	session := chat.Session{
		ID:        uuid.NewString(),
		PersonaID: p.ID,
		CreatedAt: time.Now().UTC(),
	}
	greeting := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Author:    chat.AuthorPersona,
		Text:      fmt.Sprintf(p.Greeting, prof.Nickname),
		Seq:       0,
		CreatedAt: time.Now().UTC(),
	}

	m.session = &session
	m.persona = p
	m.turns = []chat.Turn{greeting}
	m.conv = nil

	if m.provider != nil {
		conv, err := m.provider.Start(ctx, m.instruct(p, prof))
		if err != nil {
			log.Printf("[session] failed to start provider conversation for persona=%s: %v", p.ID, err)
		} else {
			m.conv = conv
		}
	}

	return session, m.copyTurns(), nil
}

// SubmitTurn appends the user's turn, awaits the persona reply and appends
// it (or the fallback text on provider failure). While a reply is pending a
// second submission is rejected; a persona switch that lands first discards
// the late reply and yields ErrSessionSuperseded.
func (m *Manager) SubmitTurn(ctx context.Context, text string) (chat.Turn, chat.Turn, error) {
	trimmed := strings.TrimSpace(text)

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return chat.Turn{}, chat.Turn{}, ErrNoActiveSession
	}
	if trimmed == "" {
		m.mu.Unlock()
		return chat.Turn{}, chat.Turn{}, ErrEmptyInput
	}
	if m.awaiting {
		m.mu.Unlock()
		return chat.Turn{}, chat.Turn{}, ErrReplyPending
	}

	userTurn := m.append(chat.AuthorUser, trimmed)

	conv := m.conv
	if conv == nil {
		// Provider unavailable; keep the conversation moving.
		reply := m.append(chat.AuthorPersona, m.fallback)
		m.mu.Unlock()
		return userTurn, reply, nil
	}

	m.awaiting = true
	epoch := m.epoch
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancelPending = cancel
	m.mu.Unlock()

	replyText, err := conv.Send(callCtx, trimmed)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		// The session this reply belongs to is gone.
		return userTurn, chat.Turn{}, ErrSessionSuperseded
	}
	m.awaiting = false
	m.cancelPending = nil

	if err != nil {
		log.Printf("[session] provider failure for persona=%s: %v", m.persona.ID, err)
		replyText = m.fallback
	}
	reply := m.append(chat.AuthorPersona, replyText)
	return userTurn, reply, nil
}

// Transcript returns the active session and a copy of its ordered turns.
func (m *Manager) Transcript() (chat.Session, []chat.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return chat.Session{}, nil, ErrNoActiveSession
	}
	return *m.session, m.copyTurns(), nil
}

// ActivePersona reports the coach bound to the live session.
func (m *Manager) ActivePersona() (persona.Persona, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return persona.Persona{}, false
	}
	return m.persona, true
}

// AwaitingReply reports whether a provider call is outstanding.
func (m *Manager) AwaitingReply() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.awaiting
}

// append adds a turn with the next sequence index. Caller holds the lock.
func (m *Manager) append(author chat.Author, text string) chat.Turn {
	turn := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: m.session.ID,
		Author:    author,
		Text:      text,
		Seq:       len(m.turns),
		CreatedAt: time.Now().UTC(),
	}
	m.turns = append(m.turns, turn)
	return turn
}

func (m *Manager) copyTurns() []chat.Turn {
	copied := make([]chat.Turn, len(m.turns))
	copy(copied, m.turns)
	return copied
}
