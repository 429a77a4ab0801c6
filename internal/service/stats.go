package service

import (
	"context"
	"time"

	customerErrors "github.com/celidone/customers/internal/errors"
	"github.com/celidone/customers/internal/metrics"
	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// StatisticsService aggregates customers population figures on demand
type StatisticsService interface {
	Snapshot(context.Context) (*model.StatsSnapshot, error)
}

type statisticsService struct {
	customerRepo repository.CustomerRepository
	now          Clock
}

func NewStatisticsService(customerRepo repository.CustomerRepository, now Clock) StatisticsService {
	if now == nil {
		now = time.Now
	}
	return &statisticsService{customerRepo: customerRepo, now: now}
}

// Snapshot computes registration windows in clock location. Active, Inactive and MeanAge are
// placeholders until activity tracking and age calculation exist.
func (s *statisticsService) Snapshot(ctx context.Context) (*model.StatsSnapshot, error) {
	timer := prometheus.NewTimer(metrics.StatsDuration)
	defer timer.ObserveDuration()

	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfToday := startOfToday.AddDate(0, 0, 1).Add(-time.Nanosecond)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekAgo := startOfToday.AddDate(0, 0, -7)

	var snap model.StatsSnapshot
	var topCity string

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(s.count(&snap.Total, func() (int64, error) {
		return s.customerRepo.Count(gCtx)
	}))
	g.Go(s.count(&snap.Today, func() (int64, error) {
		return s.customerRepo.CountByRegisteredAtBetween(gCtx, startOfToday, endOfToday)
	}))
	g.Go(s.count(&snap.ThisMonth, func() (int64, error) {
		return s.customerRepo.CountByRegisteredAtBetween(gCtx, firstOfMonth, endOfToday)
	}))
	g.Go(s.count(&snap.Last7Days, func() (int64, error) {
		return s.customerRepo.CountByRegisteredAtBetween(gCtx, weekAgo, endOfToday)
	}))
	g.Go(s.count(&snap.Individuals, func() (int64, error) {
		return s.customerRepo.CountByPersonType(gCtx, model.PersonTypeIndividual)
	}))
	g.Go(s.count(&snap.Organizations, func() (int64, error) {
		return s.customerRepo.CountByPersonType(gCtx, model.PersonTypeOrganization)
	}))
	g.Go(func() error {
		city, err := s.customerRepo.TopCityByCount(gCtx)
		if err != nil {
			return err
		}

		if city == "" {
			return nil
		}

		n, err := s.customerRepo.CountByCity(gCtx, city)
		if err != nil {
			return err
		}

		topCity = city
		snap.TopCityCount = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, customerErrors.NewStorageErr("compute statistics", err)
	}

	snap.TopCity = model.NoCity
	if topCity != "" {
		snap.TopCity = topCity
	}

	snap.Active = snap.Total
	snap.Inactive = 0
	snap.MeanAge = 0.0
	return &snap, nil
}

func (s *statisticsService) count(dst *int64, query func() (int64, error)) func() error {
	return func() error {
		n, err := query()
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}
