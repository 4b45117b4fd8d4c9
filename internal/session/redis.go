package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "pointadmin:session:"
	redisWorkerPrefix = "pointadmin:worker-sessions:"
)

// RedisStore keeps sessions in Redis so they survive restarts and are
// shared between server instances. Redis expires keys after the TTL.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func key(id string) string { return redisKeyPrefix + id }

func workerKey(workerID string) string { return redisWorkerPrefix + workerID }

func (s *RedisStore) Create(ctx context.Context, sess Session) (Session, error) {
	sess.ID = uuid.NewString()
	sess.IssuedAt = s.now().UTC()
	if sess.TTL <= 0 {
		sess.TTL = DefaultTTL
	}

	b, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}
	// The per-worker set lives as long as the newest session in it.
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(sess.ID), b, sess.TTL)
		pipe.SAdd(ctx, workerKey(sess.WorkerID), sess.ID)
		pipe.Expire(ctx, workerKey(sess.WorkerID), sess.TTL)
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	val, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	// Redis key expiry is coarse; check the exact deadline too.
	if Expired(s.now(), sess.IssuedAt, sess.TTL) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteByWorker(ctx context.Context, workerID string) (int, error) {
	ids, err := s.client.SMembers(ctx, workerKey(workerID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list worker sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, key(id))
	}
	keys = append(keys, workerKey(workerID))

	// Set members may already have expired; only live keys are counted.
	var live int64
	if len(ids) > 0 {
		live, err = s.client.Exists(ctx, keys[:len(ids)]...).Result()
		if err != nil {
			return 0, fmt.Errorf("count worker sessions: %w", err)
		}
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("delete worker sessions: %w", err)
	}
	return int(live), nil
}
