package repository

import (
	"context"

	"github.com/celidone/customers/internal/cache"
	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/pkg/db/transactor"
	"github.com/sirupsen/logrus"
)

type cachedCustomerRepository struct {
	CustomerRepository
	cache cache.CustomerCache
}

// NewCachedCustomerRepository wraps repository with read-through cache for single customer lookups.
// Writes evict cached copy once their transaction commits, reads inside transaction bypass cache.
func NewCachedCustomerRepository(repo CustomerRepository, c cache.CustomerCache) CustomerRepository {
	return &cachedCustomerRepository{CustomerRepository: repo, cache: c}
}

func (r *cachedCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	if transactor.InTransaction(ctx) {
		return r.CustomerRepository.FindByID(ctx, id)
	}

	c, err := r.cache.FindByID(ctx, id)
	if err != nil {
		logrus.Warnf("failed to read customer %s from cache - %v", id, err)
	}

	if c != nil {
		return c, nil
	}

	c, err = r.CustomerRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, nil
	}

	if err := r.cache.Create(ctx, c); err != nil {
		logrus.Warnf("failed to cache customer %s - %v", id, err)
	}
	return c, nil
}

func (r *cachedCustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	saved, err := r.CustomerRepository.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	if c.ID != "" {
		transactor.AfterCommit(ctx, r.evict(c.ID))
	}
	return saved, nil
}

func (r *cachedCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.CustomerRepository.DeleteByID(ctx, id); err != nil {
		return err
	}

	transactor.AfterCommit(ctx, r.evict(id))
	return nil
}

func (r *cachedCustomerRepository) evict(id string) func(context.Context) {
	return func(ctx context.Context) {
		if err := r.cache.DeleteByID(ctx, id); err != nil {
			logrus.Errorf("failed to evict customer %s from cache - %v", id, err)
		}
	}
}
