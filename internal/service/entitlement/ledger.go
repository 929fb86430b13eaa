package entitlement

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
)

var (
	ErrInvalidAmount        = errors.New("coin amount must be positive")
	ErrAlreadyUnlocked      = errors.New("resource already unlocked")
	ErrSubscriptionRequired = errors.New("resource requires an active subscription")
)

// InsufficientCoinsError reports how many coins are missing for an unlock.
type InsufficientCoinsError struct {
	Shortfall int
}

func (e *InsufficientCoinsError) Error() string {
	return fmt.Sprintf("insufficient coins: %d more needed", e.Shortfall)
}

// Reason explains why a resource is locked.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNeedsSubscription Reason = "needsSubscription"
	ReasonNeedsCoins        Reason = "needsCoins"
)

// LockState is the result of evaluating a resource against the current
// entitlement state. Price is set only when Reason is ReasonNeedsCoins.
type LockState struct {
	Locked bool   `json:"locked"`
	Reason Reason `json:"reason,omitempty"`
	Price  int    `json:"price,omitempty"`
}

// State is a read-only snapshot of the entitlement state.
type State struct {
	Coins      int  `json:"coins"`
	Subscribed bool `json:"subscribed"`
}

// Ledger owns the coin balance, the subscription flag and the set of
// resources unlocked during this process lifetime. All mutations happen
// under one mutex so a debit and its unlock mark can never be observed
// apart.
type Ledger struct {
	mu         sync.Mutex
	coins      int
	subscribed bool
	unlocked   map[string]struct{}
}

// NewLedger creates the account's entitlement state with the welcome balance.
func NewLedger(welcomeCoins int) *Ledger {
	if welcomeCoins < 0 {
		welcomeCoins = 0
	}
	return &Ledger{
		coins:    welcomeCoins,
		unlocked: make(map[string]struct{}),
	}
}

// Snapshot returns the current balance and subscription flag.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{Coins: l.coins, Subscribed: l.subscribed}
}

// EvaluateLock derives the lock state for a resource. No side effects.
func (l *Ledger) EvaluateLock(res resource.Resource) LockState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evaluate(res)
}

func (l *Ledger) evaluate(res resource.Resource) LockState {
	if _, ok := l.unlocked[res.ID]; ok {
		return LockState{}
	}
	if l.subscribed {
		return LockState{}
	}
	if res.BasePrice > 0 {
		return LockState{Locked: true, Reason: ReasonNeedsCoins, Price: res.BasePrice}
	}
	if res.GatedBySubscription {
		return LockState{Locked: true, Reason: ReasonNeedsSubscription}
	}
	return LockState{}
}

// PurchaseCoins credits the balance. Payment success is the shop's concern;
// only the resulting delta reaches the ledger.
func (l *Ledger) PurchaseCoins(amount int) (State, error) {
	if amount <= 0 {
		return State{}, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coins += amount
	return State{Coins: l.coins, Subscribed: l.subscribed}, nil
}

// Subscribe turns the subscription on. Idempotent.
func (l *Ledger) Subscribe() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribed = true
	return State{Coins: l.coins, Subscribed: l.subscribed}
}

// Unlock grants access to a resource. A subscriber unlocks at zero coin
// cost; otherwise the base price is debited and the resource is marked
// unlocked in the same critical section. Subscription-gated resources
// without a coin price have no coin path at all. The balance never goes
// negative and a resource is never charged twice.
func (l *Ledger) Unlock(res resource.Resource) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.unlocked[res.ID]; ok {
		return State{}, ErrAlreadyUnlocked
	}
	if !l.subscribed {
		if res.GatedBySubscription && res.BasePrice <= 0 {
			return State{}, ErrSubscriptionRequired
		}
		if l.coins < res.BasePrice {
			return State{}, &InsufficientCoinsError{Shortfall: res.BasePrice - l.coins}
		}
		l.coins -= res.BasePrice
	}
	l.unlocked[res.ID] = struct{}{}
	return State{Coins: l.coins, Subscribed: l.subscribed}, nil
}
