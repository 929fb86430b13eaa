package account

import (
	"errors"
	"strings"
	"sync"

	"github.com/dasgddadqw231/shindy-backend/internal/model/profile"
	"github.com/dasgddadqw231/shindy-backend/internal/service/entitlement"
)

var (
	ErrAlreadyOnboarded = errors.New("onboarding already completed")
	ErrNotOnboarded     = errors.New("onboarding not completed")
	ErrNicknameRequired = errors.New("nickname is required")
)

// Service owns the single account: the onboarding profile and the
// entitlement ledger created when onboarding completes.
type Service struct {
	mu           sync.RWMutex
	welcomeCoins int
	profile      profile.Profile
	onboarded    bool
	ledger       *entitlement.Ledger
}

// NewService prepares the account holder. The ledger does not exist until
// CompleteOnboarding grants the welcome balance.
func NewService(welcomeCoins int) *Service {
	return &Service{welcomeCoins: welcomeCoins}
}

// CompleteOnboarding stores the profile and creates the entitlement state
// with the welcome balance. Exactly once per process lifetime.
func (s *Service) CompleteOnboarding(p profile.Profile) (*entitlement.Ledger, error) {
	if strings.TrimSpace(p.Nickname) == "" {
		return nil, ErrNicknameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.onboarded {
		return nil, ErrAlreadyOnboarded
	}
	s.profile = p
	s.onboarded = true
	s.ledger = entitlement.NewLedger(s.welcomeCoins)
	return s.ledger, nil
}

// Profile returns the stored profile once onboarding is complete.
func (s *Service) Profile() (profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.onboarded {
		return profile.Profile{}, ErrNotOnboarded
	}
	return s.profile, nil
}

// Ledger returns the entitlement ledger once onboarding is complete.
func (s *Service) Ledger() (*entitlement.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.onboarded {
		return nil, ErrNotOnboarded
	}
	return s.ledger, nil
}
