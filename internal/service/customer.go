package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	customerErrors "github.com/celidone/customers/internal/errors"
	"github.com/celidone/customers/internal/metrics"
	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/notifier"
	"github.com/celidone/customers/internal/repository"
	"github.com/celidone/customers/pkg/db/transactor"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// Clock returns current time, services stamp records with it
type Clock func() time.Time

type CustomerService interface {
	FindAll(context.Context, model.PageSpec) (*model.CustomerPage, error)
	FindByID(context.Context, string) (*model.Customer, error)
	Search(context.Context, string) ([]*model.Customer, error)
	Recent(context.Context, int) ([]*model.Customer, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Update(context.Context, string, *model.Customer) (*model.Customer, error)
	DeleteByID(context.Context, string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	policy       CustomerPolicy
	trx          transactor.Transactor
	notifier     notifier.Notifier
	now          Clock
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	policy CustomerPolicy,
	trx transactor.Transactor,
	n notifier.Notifier,
	now Clock,
) CustomerService {
	if now == nil {
		now = time.Now
	}
	return &customerService{customerRepo: customerRepo, policy: policy, trx: trx, notifier: n, now: now}
}

func (s *customerService) FindAll(ctx context.Context, spec model.PageSpec) (*model.CustomerPage, error) {
	page, err := s.customerRepo.FindAll(ctx, spec)
	if err != nil {
		return nil, customerErrors.NewStorageErr("read customers", err)
	}
	return page, nil
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, customerErrors.NewStorageErr("read customer", err)
	}

	if c == nil {
		return nil, notFound(id)
	}
	return c, nil
}

func (s *customerService) Search(ctx context.Context, term string) ([]*model.Customer, error) {
	customers, err := s.customerRepo.Search(ctx, term)
	if err != nil {
		return nil, customerErrors.NewStorageErr("search customers", err)
	}
	return customers, nil
}

// Recent returns newest customers first, limit is clamped to [1, MaxRecentLimit] and defaults to DefaultRecentLimit
func (s *customerService) Recent(ctx context.Context, limit int) ([]*model.Customer, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	customers, err := s.customerRepo.RecentFirst(ctx, limit)
	if err != nil {
		return nil, customerErrors.NewStorageErr("read recent customers", err)
	}
	return customers, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	var created *model.Customer

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.policy.Validate(ctx, c, ""); err != nil {
			return err
		}

		candidate := *c
		candidate.ID = ""
		candidate.RegisteredAt = s.timestamp()
		candidate.UpdatedAt = candidate.RegisteredAt

		saved, err := s.customerRepo.Save(ctx, &candidate)
		if err != nil {
			return customerErrors.NewStorageErr("create customer", err)
		}

		created = saved
		return nil
	})
	if err != nil {
		return nil, s.rejected("create customer", err)
	}

	metrics.CustomersWrittenTotal.WithLabelValues("create").Inc()
	s.broadcast(ctx, model.NewCustomerEvent(model.TopicCustomerCreated, created, created.UpdatedAt))
	return created, nil
}

func (s *customerService) Update(ctx context.Context, id string, c *model.Customer) (*model.Customer, error) {
	var updated *model.Customer

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.customerRepo.FindByID(ctx, id)
		if err != nil {
			return customerErrors.NewStorageErr("read customer", err)
		}

		if existing == nil {
			return notFound(id)
		}

		if err := s.policy.Validate(ctx, c, id); err != nil {
			return err
		}

		merged := *existing
		merged.Replace(c)
		merged.UpdatedAt = s.timestamp()
		if !merged.UpdatedAt.After(existing.UpdatedAt) {
			merged.UpdatedAt = existing.UpdatedAt.Add(time.Millisecond)
		}

		saved, err := s.customerRepo.Save(ctx, &merged)
		if err != nil {
			return customerErrors.NewStorageErr("update customer", err)
		}

		if saved == nil {
			return notFound(id)
		}

		updated = saved
		return nil
	})
	if err != nil {
		return nil, s.rejected("update customer", err)
	}

	metrics.CustomersWrittenTotal.WithLabelValues("update").Inc()
	s.broadcast(ctx, model.NewCustomerEvent(model.TopicCustomerUpdated, updated, updated.UpdatedAt))
	return updated, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.customerRepo.ExistsByID(ctx, id)
		if err != nil {
			return customerErrors.NewStorageErr("check customer existence", err)
		}

		if !exists {
			return notFound(id)
		}

		if err := s.customerRepo.DeleteByID(ctx, id); err != nil {
			return customerErrors.NewStorageErr("delete customer", err)
		}
		return nil
	})
	if err != nil {
		return s.rejected("delete customer", err)
	}

	metrics.CustomersWrittenTotal.WithLabelValues("delete").Inc()
	s.broadcast(ctx, model.NewDeletedEvent(id, s.timestamp()))
	return nil
}

// broadcast runs after commit, failures never reach the writer
func (s *customerService) broadcast(ctx context.Context, e model.Event) {
	if err := s.notifier.Broadcast(ctx, e); err != nil {
		notifyErr := customerErrors.NewNotifyErr(e.Topic, err)
		metrics.NotificationsTotal.WithLabelValues(e.Topic, "dropped").Inc()
		logrus.WithField("customerId", e.CustomerID).Error(notifyErr)
	}
}

// rejected keeps business, not found and storage errors as is, transaction failures become storage errors
func (s *customerService) rejected(op string, err error) error {
	var (
		bErr        *customerErrors.BusinessErr
		notFoundErr *customerErrors.EntryNotFoundErr
		storageErr  *customerErrors.StorageErr
	)

	switch {
	case errors.As(err, &bErr):
		metrics.CustomersRejectedTotal.WithLabelValues(bErr.Code()).Inc()
		return err
	case errors.As(err, &notFoundErr), errors.As(err, &storageErr):
		return err
	default:
		return customerErrors.NewStorageErr(op, err)
	}
}

func (s *customerService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func notFound(id string) error {
	return customerErrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %s doesn't exist", id))
}
