// Package otp issues and verifies the short-lived codes that gate signing
// and termination consent. Codes live in Redis only; an unconsumed code
// simply expires with no contract-state change.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// RedisClient is the subset of redis.Client the store uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Purpose namespaces codes so a signing OTP can never be replayed as a
// termination consent.
type Purpose string

const (
	PurposeSign    Purpose = "sign"
	PurposeConsent Purpose = "consent"
)

// DefaultTTL is the validity window of an issued code.
const DefaultTTL = 5 * time.Minute

// Store issues one code per (purpose, subject, party); re-issuing replaces
// the previous code.
type Store struct {
	redis RedisClient
	ttl   time.Duration
}

func NewStore(rdb RedisClient) *Store {
	return &Store{redis: rdb, ttl: DefaultTTL}
}

func key(purpose Purpose, subjectID, partyID uuid.UUID) string {
	return fmt.Sprintf("otp:%s:%s:%s", purpose, subjectID, partyID)
}

// Issue generates a fresh 6-digit code and stores it with the TTL. The code
// is returned to the caller only so it can be mailed to the party.
func (s *Store) Issue(ctx context.Context, purpose Purpose, subjectID, partyID uuid.UUID) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.redis.SetEx(ctx, key(purpose, subjectID, partyID), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code against the issued one and consumes it on
// success. A missing key means the code expired or was never issued; both
// read the same to the caller.
func (s *Store) Verify(ctx context.Context, purpose Purpose, subjectID, partyID uuid.UUID, code string) error {
	k := key(purpose, subjectID, partyID)
	issued, err := s.redis.Get(ctx, k).Result()
	if err == redis.Nil {
		return workflow.Errf(workflow.CodeOTPInvalid, "OTP expired or not issued, request a new one")
	}
	if err != nil {
		return err
	}
	if issued != code {
		return workflow.Errf(workflow.CodeOTPInvalid, "OTP does not match")
	}
	// Single use.
	if err := s.redis.Del(ctx, k).Err(); err != nil {
		return err
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
