// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps values in process memory. Used when no Valkey host is
// configured; contents are lost on restart.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory store whose entries default to ttl and are
// swept every cleanup interval.
func NewMemory(ttl, cleanup time.Duration) *Memory {
	return &Memory{cache: gocache.New(ttl, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrMiss
	}
	// Copy so callers cannot mutate the stored value.
	return append([]byte(nil), b...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Len reports the number of stored entries, including expired ones not
// yet swept.
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}
