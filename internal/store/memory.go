package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"chat-casino-backend/internal/models"
)

// MemoryStore keeps everything in process memory behind one mutex. It exists
// so the session engine can be tested hermetically; the deployed binary uses
// RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[int64]*models.Account
	config   map[string]string
	audit    []*models.AuditEntry
	rates    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[int64]*models.Account),
		config:   make(map[string]string),
		rates:    make(map[string]int),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetAccount(ctx context.Context, playerID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[playerID]
	if !ok {
		acct = &models.Account{
			PlayerID:  playerID,
			Wallet:    models.StartingWallet,
			CreatedAt: time.Now().Unix(),
		}
		s.accounts[playerID] = acct
	}
	clone := *acct
	return &clone, nil
}

func (s *MemoryStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *acct
	s.accounts[acct.PlayerID] = &clone
	return nil
}

func (s *MemoryStore) ApplyDelta(ctx context.Context, playerID int64, walletDelta, bankDelta int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	if acct.Wallet+walletDelta < 0 || acct.Bank+bankDelta < 0 {
		return nil, ErrInsufficientFunds
	}
	acct.Wallet += walletDelta
	acct.Bank += bankDelta

	clone := *acct
	return &clone, nil
}

func (s *MemoryStore) IncrStats(ctx context.Context, playerID int64, winsDelta, lossesDelta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[playerID]
	if !ok {
		return ErrNotFound
	}
	acct.Wins += winsDelta
	acct.Losses += lossesDelta
	return nil
}

func (s *MemoryStore) TopAccounts(ctx context.Context, limit int64) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 10
	}

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		clone := *acct
		accounts = append(accounts, &clone)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Total() > accounts[j].Total()
	})
	if int64(len(accounts)) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (s *MemoryStore) GetConfig(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.config[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) SetConfig(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config[key] = value
	return nil
}

func (s *MemoryStore) SetConfigDefault(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.config[key]; !ok {
		s.config[key] = value
	}
	return nil
}

func (s *MemoryStore) IncrConfig(ctx context.Context, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := strconv.ParseInt(s.config[key], 10, 64)
	current += delta
	s.config[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (s *MemoryStore) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *entry
	s.audit = append([]*models.AuditEntry{&clone}, s.audit...)
	if len(s.audit) > AuditLogCap {
		s.audit = s.audit[:AuditLogCap]
	}
	return nil
}

func (s *MemoryStore) RecentAudit(ctx context.Context, limit int64) ([]*models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > AuditLogCap {
		limit = 15
	}
	if int64(len(s.audit)) < limit {
		limit = int64(len(s.audit))
	}
	out := make([]*models.AuditEntry, limit)
	copy(out, s.audit[:limit])
	return out, nil
}

func (s *MemoryStore) CheckRateLimit(ctx context.Context, playerID int64, action string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(playerID, 10) + ":" + action
	s.rates[key]++
	return s.rates[key] <= limit, nil
}

func (s *MemoryStore) ResetEconomy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[int64]*models.Account)
	s.config[ConfigJackpotPool] = DefaultJackpotPool
	s.config[ConfigMaxBet] = DefaultMaxBet
	return nil
}
