// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package web

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is prepended to the session ids to build the redis keys.
const DefaultRedisPrefix = "curvedline:session:"

// RedisStorage stores sessions as JSON in redis. Every Set refreshes the
// expiry of the key, so redis drops idle sessions by itself.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage returns a storage using client. Keys expire after ttl,
// ttl 0 disables expiry.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: DefaultRedisPrefix,
		ttl:    ttl,
	}
}

// DialRedis connects to the redis server at addr and checks the connection.
func DialRedis(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, curvedline.WrapError(curvedline.ErrCodeInvalidInput, err, "can't connect to redis at %s", addr)
	}
	return NewRedisStorage(client, ttl), nil
}

func (s *RedisStorage) key(conn ConnectionID) string {
	return s.prefix + conn.String()
}

func (s *RedisStorage) Get(ctx context.Context, conn ConnectionID) (*State, error) {
	data, err := s.client.Get(ctx, s.key(conn)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrConnNotFound
	}
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, curvedline.WrapError(curvedline.ErrCodeInvalidInput, err, "invalid session %s", conn)
	}
	return &state, nil
}

func (s *RedisStorage) Set(ctx context.Context, conn ConnectionID, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(conn), data, s.ttl).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, conn ConnectionID) error {
	return s.client.Del(ctx, s.key(conn)).Err()
}

// Filter removes the expired sessions. Usually redis has done this already,
// but sessions written without ttl are only removed here.
func (s *RedisStorage) Filter(ctx context.Context, maxAge time.Duration) error {
	now := time.Now().UTC()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var state State
		if err := json.Unmarshal(data, &state); err != nil || state.Expired(now, maxAge) {
			if delErr := s.client.Del(ctx, key).Err(); delErr != nil {
				return delErr
			}
		}
	}
	return iter.Err()
}

// Close closes the redis client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

var (
	_ ConnectionStorage = (*MemStorage)(nil)
	_ ConnectionStorage = (*RedisStorage)(nil)
)
