package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
	"github.com/redis/go-redis/v9"
)

const otpNamespace = "otp"

type otpValue struct {
	Code        string `json:"code"`
	ExpiresAtMs int64  `json:"expires_at_ms"`
}

// OTPStore keeps one verification code per email under "otp:<email>".
// Keys outlive the code by retain so verify can still tell "expired" from "absent".
type OTPStore struct {
	client redis.UniversalClient
	retain time.Duration
	now    func() time.Time
}

// NewClient connects to a single Redis node.
func NewClient(cfg *config.Config) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewOTPStore(client redis.UniversalClient, retain time.Duration) *OTPStore {
	return &OTPStore{client: client, retain: retain, now: time.Now}
}

func key(email string) string { return otpNamespace + ":" + email }

func (s *OTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	b, err := json.Marshal(otpValue{Code: rec.Code, ExpiresAtMs: rec.ExpiresAt.UnixMilli()})
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	ttl := rec.ExpiresAt.Sub(s.now()) + s.retain
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, key(rec.Email), b, ttl).Err()
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	raw, err := s.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var v otpValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode otp: %w", err)
	}
	return &domain.OTPRecord{Email: email, Code: v.Code, ExpiresAt: time.UnixMilli(v.ExpiresAtMs).UTC()}, nil
}

// Delete removes the record if it still holds code and reports whether this
// call removed it. The key is watched so a concurrent Put or Delete aborts
// the transaction instead of being overwritten.
func (s *OTPStore) Delete(ctx context.Context, email, code string) (bool, error) {
	k := key(email)
	removed := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		var v otpValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode otp: %w", err)
		}
		if v.Code != code {
			return nil
		}
		cmds, err := tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, k)
			return nil
		})
		if err != nil {
			return err
		}
		removed = cmds[0].(*redis.IntCmd).Val() > 0
		return nil
	}, k)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return removed, nil
}
