package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/go-redis/redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const DefaultCustomerTimeToLive = 10 * time.Minute

// CustomerCache keeps read copies of customers, FindByID returns nil customer on miss
type CustomerCache interface {
	FindByID(context.Context, string) (*model.Customer, error)
	DeleteByID(context.Context, string) error
	Create(context.Context, *model.Customer) error
}

type redisCustomerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCustomerCache(client *redis.Client, ttl time.Duration) CustomerCache {
	if ttl <= 0 {
		ttl = DefaultCustomerTimeToLive
	}
	return &redisCustomerCache{client: client, ttl: ttl}
}

func (r *redisCustomerCache) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	res, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var c model.Customer
	if err := msgpack.Unmarshal(res, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *redisCustomerCache) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.client.Del(ctx, r.key(id)).Result(); err != nil {
		return err
	}
	return nil
}

func (r *redisCustomerCache) Create(ctx context.Context, c *model.Customer) error {
	encoded, err := msgpack.Marshal(c)
	if err != nil {
		return err
	}

	if _, err := r.client.SetNX(ctx, r.key(c.ID), encoded, r.ttl).Result(); err != nil {
		return err
	}
	return nil
}

func (r *redisCustomerCache) key(id string) string {
	return fmt.Sprintf("customer:%s", id)
}
