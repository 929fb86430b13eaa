package entitlement_test

import (
	"errors"
	"testing"

	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/entitlement"
)

func TestEvaluateLockReasons(t *testing.T) {
	ledger := entitlement.NewLedger(0)

	free := resource.Resource{ID: "c1", Kind: resource.KindContent}
	if state := ledger.EvaluateLock(free); state.Locked {
		t.Fatalf("free resource reported locked: %+v", state)
	}

	priced := resource.Resource{ID: "d2", Kind: resource.KindDiagnosis, BasePrice: 20, GatedBySubscription: true}
	state := ledger.EvaluateLock(priced)
	if !state.Locked || state.Reason != entitlement.ReasonNeedsCoins || state.Price != 20 {
		t.Fatalf("unexpected lock state for priced resource: %+v", state)
	}

	gated := resource.FromPersona("healer", "숲속의 힐러", true)
	state = ledger.EvaluateLock(gated)
	if !state.Locked || state.Reason != entitlement.ReasonNeedsSubscription {
		t.Fatalf("unexpected lock state for gated coach: %+v", state)
	}
}

func TestSubscriptionUnlocksEverything(t *testing.T) {
	ledger := entitlement.NewLedger(0)
	ledger.Subscribe()

	for _, res := range resource.Seed() {
		if state := ledger.EvaluateLock(res); state.Locked {
			t.Fatalf("resource %s locked for subscriber: %+v", res.ID, state)
		}
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	ledger := entitlement.NewLedger(10)

	first := ledger.Subscribe()
	second := ledger.Subscribe()

	if !first.Subscribed || !second.Subscribed {
		t.Fatal("subscription flag not set")
	}
	if second.Coins != 10 {
		t.Fatalf("balance changed by subscribe: %d", second.Coins)
	}
}

func TestPurchaseCoinsRejectsNonPositive(t *testing.T) {
	ledger := entitlement.NewLedger(0)

	if _, err := ledger.PurchaseCoins(0); !errors.Is(err, entitlement.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := ledger.PurchaseCoins(-5); !errors.Is(err, entitlement.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	state, err := ledger.PurchaseCoins(30)
	if err != nil {
		t.Fatalf("PurchaseCoins err: %v", err)
	}
	if state.Coins != 30 {
		t.Fatalf("unexpected balance: %d", state.Coins)
	}
}

func TestUnlockExactBalance(t *testing.T) {
	ledger := entitlement.NewLedger(20)
	res := resource.Resource{ID: "d2", BasePrice: 20, GatedBySubscription: true}

	state, err := ledger.Unlock(res)
	if err != nil {
		t.Fatalf("Unlock err: %v", err)
	}
	if state.Coins != 0 {
		t.Fatalf("expected zero balance, got %d", state.Coins)
	}
	if lock := ledger.EvaluateLock(res); lock.Locked {
		t.Fatalf("resource still locked after unlock: %+v", lock)
	}
}

func TestUnlockShortfall(t *testing.T) {
	ledger := entitlement.NewLedger(19)
	res := resource.Resource{ID: "d2", BasePrice: 20, GatedBySubscription: true}

	_, err := ledger.Unlock(res)
	var insufficient *entitlement.InsufficientCoinsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientCoinsError, got %v", err)
	}
	if insufficient.Shortfall != 1 {
		t.Fatalf("expected shortfall 1, got %d", insufficient.Shortfall)
	}
	if state := ledger.Snapshot(); state.Coins != 19 {
		t.Fatalf("balance changed on failed unlock: %d", state.Coins)
	}
}

func TestUnlockExactlyOnce(t *testing.T) {
	ledger := entitlement.NewLedger(50)
	res := resource.Resource{ID: "c4", BasePrice: 10, GatedBySubscription: true}

	if _, err := ledger.Unlock(res); err != nil {
		t.Fatalf("first Unlock err: %v", err)
	}
	if _, err := ledger.Unlock(res); !errors.Is(err, entitlement.ErrAlreadyUnlocked) {
		t.Fatalf("expected ErrAlreadyUnlocked, got %v", err)
	}
	if state := ledger.Snapshot(); state.Coins != 40 {
		t.Fatalf("double debit: balance %d", state.Coins)
	}
}

func TestGatedCoachHasNoCoinPath(t *testing.T) {
	ledger := entitlement.NewLedger(100)
	coach := resource.FromPersona("healer", "숲속의 힐러", true)

	if _, err := ledger.Unlock(coach); !errors.Is(err, entitlement.ErrSubscriptionRequired) {
		t.Fatalf("expected ErrSubscriptionRequired, got %v", err)
	}
	state := ledger.EvaluateLock(coach)
	if !state.Locked || state.Reason != entitlement.ReasonNeedsSubscription {
		t.Fatalf("coach no longer subscription-locked after refused unlock: %+v", state)
	}
	if ledger.Snapshot().Coins != 100 {
		t.Fatal("balance changed on refused unlock")
	}

	ledger.Subscribe()
	if _, err := ledger.Unlock(coach); err != nil {
		t.Fatalf("subscriber unlock err: %v", err)
	}
	if ledger.Snapshot().Coins != 100 {
		t.Fatal("subscriber was charged for a gated coach")
	}
}

func TestSubscriberUnlockIsFree(t *testing.T) {
	ledger := entitlement.NewLedger(5)
	ledger.Subscribe()
	res := resource.Resource{ID: "t2", BasePrice: 50, GatedBySubscription: true}

	state, err := ledger.Unlock(res)
	if err != nil {
		t.Fatalf("Unlock err: %v", err)
	}
	if state.Coins != 5 {
		t.Fatalf("subscriber was charged: balance %d", state.Coins)
	}
}

func TestWelcomeBalanceScenario(t *testing.T) {
	ledger := entitlement.NewLedger(50)

	state, err := ledger.Unlock(resource.Resource{ID: "d2", Kind: resource.KindDiagnosis, BasePrice: 20, GatedBySubscription: true})
	if err != nil {
		t.Fatalf("unlock diagnosis err: %v", err)
	}
	if state.Coins != 30 {
		t.Fatalf("expected 30 coins, got %d", state.Coins)
	}

	state, err = ledger.Unlock(resource.Resource{ID: "t1", Kind: resource.KindTraining, BasePrice: 30, GatedBySubscription: true})
	if err != nil {
		t.Fatalf("unlock training err: %v", err)
	}
	if state.Coins != 0 {
		t.Fatalf("expected 0 coins, got %d", state.Coins)
	}

	_, err = ledger.Unlock(resource.Resource{ID: "c4", Kind: resource.KindContent, BasePrice: 10, GatedBySubscription: true})
	var insufficient *entitlement.InsufficientCoinsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientCoinsError, got %v", err)
	}
	if insufficient.Shortfall != 10 {
		t.Fatalf("expected shortfall 10, got %d", insufficient.Shortfall)
	}
	if ledger.Snapshot().Coins != 0 {
		t.Fatal("balance changed on failed unlock")
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	ledger := entitlement.NewLedger(15)

	resources := []resource.Resource{
		{ID: "a", BasePrice: 10, GatedBySubscription: true},
		{ID: "b", BasePrice: 10, GatedBySubscription: true},
		{ID: "c", BasePrice: 10, GatedBySubscription: true},
	}
	for _, res := range resources {
		ledger.Unlock(res)
		if state := ledger.Snapshot(); state.Coins < 0 {
			t.Fatalf("balance went negative: %d", state.Coins)
		}
	}
}
