package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder assembles a single valkey operation. A nil client turns every
// operation into a no-op miss so callers never branch on cache availability.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
}

func NewCacheBuilder(client CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    fmt.Sprint(key),
		ctx:    context.Background(),
	}
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		b.ctx = ctx
	}
	return b
}

func (b *CacheBuilder) Key() string {
	return b.key
}

func (b *CacheBuilder) Set() error {
	if b.client == nil {
		return nil
	}

	payload, err := json.Marshal(b.value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", b.key, err)
	}

	var cmd valkey.Completed
	if b.ttl > 0 {
		cmd = b.client.B().Set().Key(b.key).Value(string(payload)).Ex(b.ttl).Build()
	} else {
		cmd = b.client.B().Set().Key(b.key).Value(string(payload)).Build()
	}

	return b.client.Do(b.ctx, cmd).Error()
}

func (b *CacheBuilder) Get(dest any) (bool, error) {
	if b.client == nil {
		return false, nil
	}

	payload, err := b.client.Do(b.ctx, b.client.B().Get().Key(b.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value for %s: %w", b.key, err)
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.client == nil {
		return nil
	}
	return b.client.Do(b.ctx, b.client.B().Del().Key(b.key).Build()).Error()
}

// Increment bumps the integer stored at the builder's key, starting from 0
// when the key is missing, and returns the new value.
func (b *CacheBuilder) Increment() (int64, error) {
	if b.client == nil {
		return 0, nil
	}
	return b.client.Do(b.ctx, b.client.B().Incr().Key(b.key).Build()).AsInt64()
}

// AddMember records member in the set stored at the builder's key and
// refreshes the set's TTL when one is configured.
func (b *CacheBuilder) AddMember(member string) error {
	if b.client == nil {
		return nil
	}

	if err := b.client.Do(b.ctx, b.client.B().Sadd().Key(b.key).Member(member).Build()).Error(); err != nil {
		return err
	}

	if b.ttl > 0 {
		return b.client.Do(b.ctx, b.client.B().Expire().Key(b.key).Seconds(int64(b.ttl.Seconds())).Build()).Error()
	}
	return nil
}

// DeleteMembers removes every key listed in the set and then the set itself.
func (b *CacheBuilder) DeleteMembers() (int, error) {
	if b.client == nil {
		return 0, nil
	}

	members, err := b.client.Do(b.ctx, b.client.B().Smembers().Key(b.key).Build()).AsStrSlice()
	if err != nil && !valkey.IsValkeyNil(err) {
		return 0, err
	}

	keys := append(members, b.key)
	if err := b.client.Do(b.ctx, b.client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return 0, err
	}

	return len(members), nil
}

func (b *CacheBuilder) Publish(message []byte) error {
	if b.client == nil {
		return nil
	}
	return b.client.Do(b.ctx, b.client.B().Publish().Channel(b.key).Message(string(message)).Build()).Error()
}
