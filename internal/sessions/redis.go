package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/profiler/internal/config"
)

// Redis is a Registry shared by every host process pointing at the same
// redis database. States are stored as JSON with a sliding expiry.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedis connects to the configured redis server and checks it responds.
func NewRedis(ctx context.Context, cfg config.SessionsConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisWithClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (r *Redis) key(token string) string {
	return r.prefix + token
}

func (r *Redis) Create(ctx context.Context, st State) (string, State, error) {
	token := newToken()
	now := r.now().UTC()
	st.Version = 1
	st.CreatedAt = now
	st.UpdatedAt = now

	data, err := json.Marshal(st)
	if err != nil {
		return "", State{}, fmt.Errorf("encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(token), data, r.ttl).Result()
	if err != nil {
		return "", State{}, fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return "", State{}, fmt.Errorf("session token collision")
	}
	return token, st, nil
}

func (r *Redis) Get(ctx context.Context, token string) (State, error) {
	if !validToken(token) {
		return State{}, notFound(token)
	}
	return r.load(ctx, r.client, token)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) load(ctx context.Context, c getter, token string) (State, error) {
	data, err := c.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, notFound(token)
	}
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}

// Put performs an optimistic check-and-set under WATCH so two requests for
// the same token cannot both apply.
func (r *Redis) Put(ctx context.Context, token string, st State) (State, error) {
	if !validToken(token) {
		return State{}, notFound(token)
	}
	key := r.key(token)

	var stored State
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, token)
		if err != nil {
			return err
		}
		if current.Version != st.Version {
			return conflict(token)
		}

		stored = st
		stored.Version++
		stored.CreatedAt = current.CreatedAt
		stored.UpdatedAt = r.now().UTC()
		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return State{}, conflict(token)
	}
	if err != nil {
		return State{}, err
	}
	return stored, nil
}

func (r *Redis) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
