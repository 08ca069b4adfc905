package projectstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

const (
	redisKeyPrefix = "avdesign:project:"
	redisIndexKey  = "avdesign:projects"
)

// RedisStore keeps each project in a hash and tracks ids in a set.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, now: time.Now}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func projectKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Save(ctx context.Context, p design.ProjectConfiguration) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, projectKey(p.ProjectID),
			"data", string(data),
			"projectName", p.ProjectName,
			"clientName", p.ClientName,
			"updatedAt", s.now().UTC().Format(time.RFC3339Nano),
		)
		pipe.SAdd(ctx, redisIndexKey, p.ProjectID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", p.ProjectID, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, projectID string) (design.ProjectConfiguration, error) {
	data, err := s.client.HGet(ctx, projectKey(projectID), "data").Result()
	if errors.Is(err, redis.Nil) {
		return design.ProjectConfiguration{}, ErrNotFound
	}
	if err != nil {
		return design.ProjectConfiguration{}, fmt.Errorf("redis load %s: %w", projectID, err)
	}
	return decode(projectID, []byte(data))
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		fields, err := s.client.HMGet(ctx, projectKey(id), "projectName", "clientName", "updatedAt").Result()
		if err != nil {
			return nil, fmt.Errorf("redis list %s: %w", id, err)
		}
		sum := Summary{ProjectID: id}
		sum.ProjectName, _ = fields[0].(string)
		sum.ClientName, _ = fields[1].(string)
		sum.UpdatedAt = parseTime(fields[2])
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ProjectID, b.ProjectID)
	})
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, projectID string) error {
	n, err := s.client.Del(ctx, projectKey(projectID)).Result()
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", projectID, err)
	}
	s.client.SRem(ctx, redisIndexKey, projectID)
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
