// Package cache provides the short-lived result cache for calculator
// outputs. Entries are advisory: a miss only costs a recompute, never
// correctness.
package cache

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL matches the five-minute window calculator results stay
// representative for.
const DefaultTTL = 5 * time.Minute

// Cache is a TTL key/value store scoped by user prefix.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	// InvalidateUser drops every cached calculation for the user. Called
	// on any transaction, category, goal or profile mutation.
	InvalidateUser(userID uuid.UUID)
}

// CalculationKey builds the deterministic fingerprint for a calculator
// result: user, calculator name, effective parameters.
func CalculationKey(userID uuid.UUID, calculator, params string) string {
	return fmt.Sprintf("calc:%s:%s:%s", userID, calculator, params)
}

// PayloadKey fingerprints a free-form payload (scenario data) by content
// hash so structurally equal requests share an entry.
func PayloadKey(userID uuid.UUID, calculator string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprinting payload: %w", err)
	}

	sum := sha1.Sum(raw)

	return CalculationKey(userID, calculator, fmt.Sprintf("%x", sum)), nil
}

func userPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("calc:%s:", userID)
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process Cache implementation.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	nowFunc func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if m.nowFunc().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()

		return nil, false
	}

	return e.value, true
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		value:     value,
		expiresAt: m.nowFunc().Add(ttl),
	}
}

func (m *Memory) InvalidateUser(userID uuid.UUID) {
	prefix := userPrefix(userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
}
