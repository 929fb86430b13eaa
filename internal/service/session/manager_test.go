package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dasgddadqw231/shindy-backend/internal/model/chat"
	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/profile"
	"github.com/dasgddadqw231/shindy-backend/internal/service/session"
)

type stubConversation struct {
	reply   string
	err     error
	started chan struct{}
	proceed chan struct{}
}

func (c *stubConversation) Send(ctx context.Context, userText string) (string, error) {
	if c.started != nil {
		close(c.started)
		c.started = nil
	}
	if c.proceed != nil {
		select {
		case <-c.proceed:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.reply, c.err
}

type stubProvider struct {
	conv        *stubConversation
	instruction string
	startErr    error
}

func (p *stubProvider) Start(_ context.Context, instruction string) (session.Conversation, error) {
	p.instruction = instruction
	if p.startErr != nil {
		return nil, p.startErr
	}
	return p.conv, nil
}

func instruct(p persona.Persona, prof profile.Profile) string {
	return p.ID + ":" + prof.Nickname
}

func testProfile() profile.Profile {
	return profile.Profile{Nickname: "지은", Age: 34, MarriageYears: 6}
}

func personaByID(t *testing.T, id string) persona.Persona {
	t.Helper()
	store := persona.NewMemoryStore(persona.Seed())
	p, ok := store.FindByID(id)
	if !ok {
		t.Fatalf("persona %s missing from seed", id)
	}
	return p
}

func TestSelectPersonaSeedsGreeting(t *testing.T) {
	provider := &stubProvider{conv: &stubConversation{reply: "ok"}}
	mgr := session.NewManager(provider, instruct, "")

	sess, turns, err := mgr.SelectPersona(context.Background(), personaByID(t, "granny"), testProfile())
	if err != nil {
		t.Fatalf("SelectPersona err: %v", err)
	}
	if sess.PersonaID != "granny" {
		t.Fatalf("unexpected persona: %s", sess.PersonaID)
	}
	if len(turns) != 1 {
		t.Fatalf("expected one greeting turn, got %d", len(turns))
	}
	if turns[0].Author != chat.AuthorPersona || turns[0].Seq != 0 {
		t.Fatalf("unexpected greeting turn: %+v", turns[0])
	}
	if !strings.Contains(turns[0].Text, "지은") {
		t.Fatalf("greeting does not address the user: %q", turns[0].Text)
	}
	if provider.instruction != "granny:지은" {
		t.Fatalf("unexpected instruction: %q", provider.instruction)
	}
}

func TestSelectSamePersonaIsNoOp(t *testing.T) {
	provider := &stubProvider{conv: &stubConversation{reply: "그랬구먼."}}
	mgr := session.NewManager(provider, instruct, "")
	ctx := context.Background()

	first, _, _ := mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())
	if _, _, err := mgr.SubmitTurn(ctx, "요즘 너무 힘들어요"); err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}

	second, turns, err := mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())
	if err != nil {
		t.Fatalf("re-select err: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("re-selecting the active persona replaced the session")
	}
	if len(turns) != 3 {
		t.Fatalf("transcript length changed on re-select: %d", len(turns))
	}
}

func TestSwitchPersonaReplacesTranscript(t *testing.T) {
	provider := &stubProvider{conv: &stubConversation{reply: "화이팅!"}}
	mgr := session.NewManager(provider, instruct, "")
	ctx := context.Background()

	first, _, _ := mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())
	mgr.SubmitTurn(ctx, "남편이랑 또 싸웠어요")

	second, turns, err := mgr.SelectPersona(ctx, personaByID(t, "energy"), testProfile())
	if err != nil {
		t.Fatalf("switch err: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a fresh session on switch")
	}
	if len(turns) != 1 || turns[0].SessionID != second.ID {
		t.Fatalf("expected exactly one greeting for the new persona, got %+v", turns)
	}
}

func TestSubmitTurnRequiresSession(t *testing.T) {
	mgr := session.NewManager(&stubProvider{conv: &stubConversation{}}, instruct, "")

	if _, _, err := mgr.SubmitTurn(context.Background(), "hello"); !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestSubmitTurnRejectsEmptyInput(t *testing.T) {
	mgr := session.NewManager(&stubProvider{conv: &stubConversation{reply: "ok"}}, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())

	if _, _, err := mgr.SubmitTurn(ctx, "   \n\t"); !errors.Is(err, session.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, turns, _ := mgr.Transcript(); len(turns) != 1 {
		t.Fatalf("empty input appended a turn: %d", len(turns))
	}
}

func TestSubmitTurnAppendsReply(t *testing.T) {
	provider := &stubProvider{conv: &stubConversation{reply: "그랬구먼, 속상했겄네."}}
	mgr := session.NewManager(provider, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())

	userTurn, reply, err := mgr.SubmitTurn(ctx, "시어머니 때문에 속상해요")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if userTurn.Author != chat.AuthorUser || userTurn.Seq != 1 {
		t.Fatalf("unexpected user turn: %+v", userTurn)
	}
	if reply.Author != chat.AuthorPersona || reply.Seq != 2 {
		t.Fatalf("unexpected reply turn: %+v", reply)
	}
	if reply.Text != "그랬구먼, 속상했겄네." {
		t.Fatalf("unexpected reply text: %q", reply.Text)
	}
}

func TestProviderFailureYieldsFallback(t *testing.T) {
	provider := &stubProvider{conv: &stubConversation{err: errors.New("upstream 500")}}
	mgr := session.NewManager(provider, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())

	_, reply, err := mgr.SubmitTurn(ctx, "답장이 와요?")
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if reply.Text != session.DefaultFallback {
		t.Fatalf("expected fallback text, got %q", reply.Text)
	}
}

func TestNilProviderAlwaysFallsBack(t *testing.T) {
	mgr := session.NewManager(nil, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "talker"), testProfile())

	_, reply, err := mgr.SubmitTurn(ctx, "대화 연습을 하고 싶어요")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if reply.Text != session.DefaultFallback {
		t.Fatalf("expected fallback text, got %q", reply.Text)
	}
}

func TestSequenceGaplessAcrossFallbacks(t *testing.T) {
	conv := &stubConversation{reply: "알겠습니다."}
	mgr := session.NewManager(&stubProvider{conv: conv}, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "sherlock"), testProfile())

	mgr.SubmitTurn(ctx, "첫 번째 고민입니다")
	conv.err = errors.New("timeout")
	mgr.SubmitTurn(ctx, "두 번째 고민입니다")
	conv.err = nil
	mgr.SubmitTurn(ctx, "세 번째 고민입니다")

	_, turns, err := mgr.Transcript()
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(turns) != 7 {
		t.Fatalf("expected 7 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		if turn.Seq != i {
			t.Fatalf("sequence gap at index %d: %+v", i, turn)
		}
	}
}

func TestSecondSubmitWhilePendingRejected(t *testing.T) {
	conv := &stubConversation{
		reply:   "늦은 답장",
		started: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	mgr := session.NewManager(&stubProvider{conv: conv}, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())

	started := conv.started
	done := make(chan error, 1)
	go func() {
		_, _, err := mgr.SubmitTurn(ctx, "먼저 보낸 메시지")
		done <- err
	}()

	<-started
	if _, _, err := mgr.SubmitTurn(ctx, "기다리지 못한 메시지"); !errors.Is(err, session.ErrReplyPending) {
		t.Fatalf("expected ErrReplyPending, got %v", err)
	}

	close(conv.proceed)
	if err := <-done; err != nil {
		t.Fatalf("first SubmitTurn err: %v", err)
	}
	if !waitNotAwaiting(mgr) {
		t.Fatal("manager still awaiting after reply landed")
	}
}

func TestLateReplyDiscardedAfterSwitch(t *testing.T) {
	conv := &stubConversation{
		reply:   "버려질 답장",
		started: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	mgr := session.NewManager(&stubProvider{conv: conv}, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())

	started := conv.started
	done := make(chan error, 1)
	go func() {
		_, _, err := mgr.SubmitTurn(ctx, "할머니한테 보낸 메시지")
		done <- err
	}()

	<-started
	newSess, _, err := mgr.SelectPersona(ctx, personaByID(t, "energy"), testProfile())
	if err != nil {
		t.Fatalf("switch during pending reply err: %v", err)
	}

	close(conv.proceed)
	if err := <-done; !errors.Is(err, session.ErrSessionSuperseded) {
		t.Fatalf("expected ErrSessionSuperseded, got %v", err)
	}

	_, turns, _ := mgr.Transcript()
	if len(turns) != 1 {
		t.Fatalf("late reply leaked into new transcript: %d turns", len(turns))
	}
	if turns[0].SessionID != newSess.ID {
		t.Fatal("transcript does not belong to the new session")
	}
}

type panickyConversation struct {
	ctx context.Context
}

func (c *panickyConversation) Send(ctx context.Context, _ string) (string, error) {
	c.ctx = ctx
	panic("provider blew up")
}

func TestCallContextCanceledWhenProviderPanics(t *testing.T) {
	conv := &panickyConversation{}
	mgr := session.NewManager(&panickyProvider{conv: conv}, instruct, "")
	ctx := context.Background()
	mgr.SelectPersona(ctx, personaByID(t, "granny"), testProfile())

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the provider panic to propagate")
			}
		}()
		mgr.SubmitTurn(ctx, "터지는 메시지")
	}()

	if conv.ctx == nil {
		t.Fatal("provider was never called")
	}
	if conv.ctx.Err() == nil {
		t.Fatal("call context not canceled after provider panic")
	}
}

type panickyProvider struct {
	conv *panickyConversation
}

func (p *panickyProvider) Start(_ context.Context, _ string) (session.Conversation, error) {
	return p.conv, nil
}

func waitNotAwaiting(mgr *session.Manager) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if !mgr.AwaitingReply() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
