package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"chat-casino-backend/internal/config"
	"chat-casino-backend/internal/models"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) GetAccount(ctx context.Context, playerID int64) (*models.Account, error) {
	key := fmt.Sprintf(KeyAccount, playerID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		acct := &models.Account{
			PlayerID:  playerID,
			Wallet:    models.StartingWallet,
			CreatedAt: time.Now().Unix(),
		}
		if err := s.SaveAccount(ctx, acct); err != nil {
			return nil, fmt.Errorf("failed to create account: %v", err)
		}
		return acct, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %v", err)
	}

	var acct models.Account
	if err := json.Unmarshal([]byte(data), &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %v", err)
	}

	return &acct, nil
}

func (s *RedisStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	key := fmt.Sprintf(KeyAccount, acct.PlayerID)

	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %v", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.ZAdd(ctx, KeyLeaderboard, redis.Z{
		Score:  float64(acct.Total()),
		Member: acct.PlayerID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// applyDeltaScript mutates wallet and bank in one round trip. It refuses any
// result below zero, which closes the read-then-write race a two-step update
// would have.
var applyDeltaScript = redis.NewScript(`
	local key = KEYS[1]
	local wd = tonumber(ARGV[1])
	local bd = tonumber(ARGV[2])

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("account not found")
	end

	local acct = cjson.decode(data)
	acct.wallet = acct.wallet + wd
	acct.bank = acct.bank + bd

	if acct.wallet < 0 or acct.bank < 0 then
		return redis.error_reply("insufficient funds")
	end

	local updated = cjson.encode(acct)
	redis.call("SET", key, updated)
	redis.call("ZADD", KEYS[2], acct.wallet + acct.bank, ARGV[3])

	return updated
`)

func (s *RedisStore) ApplyDelta(ctx context.Context, playerID int64, walletDelta, bankDelta int64) (*models.Account, error) {
	key := fmt.Sprintf(KeyAccount, playerID)

	res, err := applyDeltaScript.Run(ctx, s.client,
		[]string{key, KeyLeaderboard},
		walletDelta, bankDelta, playerID).Result()
	if err != nil {
		if strings.Contains(err.Error(), "insufficient funds") {
			return nil, ErrInsufficientFunds
		}
		if strings.Contains(err.Error(), "account not found") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to apply balance delta: %v", err)
	}

	var acct models.Account
	if err := json.Unmarshal([]byte(res.(string)), &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %v", err)
	}
	return &acct, nil
}

var incrStatsScript = redis.NewScript(`
	local key = KEYS[1]

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("account not found")
	end

	local acct = cjson.decode(data)
	acct.wins = acct.wins + tonumber(ARGV[1])
	acct.losses = acct.losses + tonumber(ARGV[2])

	redis.call("SET", key, cjson.encode(acct))
	return "OK"
`)

func (s *RedisStore) IncrStats(ctx context.Context, playerID int64, winsDelta, lossesDelta int64) error {
	key := fmt.Sprintf(KeyAccount, playerID)

	err := incrStatsScript.Run(ctx, s.client, []string{key}, winsDelta, lossesDelta).Err()
	if err != nil {
		if strings.Contains(err.Error(), "account not found") {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update stats: %v", err)
	}
	return nil
}

func (s *RedisStore) TopAccounts(ctx context.Context, limit int64) ([]*models.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	ids, err := s.client.ZRevRange(ctx, KeyLeaderboard, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %v", err)
	}

	var accounts []*models.Account
	for _, id := range ids {
		data, err := s.client.Get(ctx, "account:"+id).Result()
		if err != nil {
			continue
		}
		var acct models.Account
		if err := json.Unmarshal([]byte(data), &acct); err != nil {
			continue
		}
		accounts = append(accounts, &acct)
	}

	return accounts, nil
}

func (s *RedisStore) GetConfig(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, fmt.Sprintf(KeyConfig, key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %q: %v", key, err)
	}
	return v, nil
}

func (s *RedisStore) SetConfig(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, fmt.Sprintf(KeyConfig, key), value, 0).Err()
}

func (s *RedisStore) SetConfigDefault(ctx context.Context, key, value string) error {
	return s.client.SetNX(ctx, fmt.Sprintf(KeyConfig, key), value, 0).Err()
}

func (s *RedisStore) IncrConfig(ctx context.Context, key string, delta int64) (int64, error) {
	return s.client.IncrBy(ctx, fmt.Sprintf(KeyConfig, key), delta).Result()
}

func (s *RedisStore) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %v", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, KeyAuditLog, data)
	pipe.LTrim(ctx, KeyAuditLog, 0, AuditLogCap-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) RecentAudit(ctx context.Context, limit int64) ([]*models.AuditEntry, error) {
	if limit <= 0 || limit > AuditLogCap {
		limit = 15
	}

	rows, err := s.client.LRange(ctx, KeyAuditLog, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %v", err)
	}

	var entries []*models.AuditEntry
	for _, row := range rows {
		var entry models.AuditEntry
		if err := json.Unmarshal([]byte(row), &entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (s *RedisStore) CheckRateLimit(ctx context.Context, playerID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, playerID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisStore) ResetEconomy(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, "account:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("account scan failed: %v", err)
	}

	if err := s.client.Del(ctx, KeyLeaderboard).Err(); err != nil {
		return err
	}

	// Config resets to seed values, matching a fresh install.
	if err := s.SetConfig(ctx, ConfigJackpotPool, DefaultJackpotPool); err != nil {
		return err
	}
	return s.SetConfig(ctx, ConfigMaxBet, DefaultMaxBet)
}
