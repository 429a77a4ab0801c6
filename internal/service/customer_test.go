package service

import (
	"context"
	"errors"
	"testing"
	"time"

	customerErrors "github.com/celidone/customers/internal/errors"
	"github.com/celidone/customers/internal/metrics"
	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/notifier"
	ntfMocks "github.com/celidone/customers/internal/notifier/mocks"
	"github.com/celidone/customers/internal/repository"
	rpsMocks "github.com/celidone/customers/internal/repository/mocks"
	"github.com/celidone/customers/pkg/db/transactor"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type customerTestData struct {
	ctx      context.Context
	now      time.Time
	customer *model.Customer
}

type customerServiceTestSuite struct {
	suite.Suite
	customerSvc     CustomerService
	customerRpsMock *rpsMocks.CustomerRepository
	notifierMock    *ntfMocks.Notifier
	testData        *customerTestData
}

func (s *customerServiceTestSuite) SetupSuite() {
	s.testData = &customerTestData{
		ctx: context.Background(),
		now: time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC),
		customer: &model.Customer{
			ID:           "ecc770d9-4576-4f72-affa-8b1454246692",
			Name:         "John Walls",
			PersonType:   model.PersonTypeIndividual,
			IndividualID: "52998224725",
			Email:        "john.walls@somemail.com",
			RegisteredAt: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func (s *customerServiceTestSuite) SetupTest() {
	t := s.T()
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.notifierMock = ntfMocks.NewNotifier(t)

	now := s.testData.now
	s.customerSvc = NewCustomerService(
		s.customerRpsMock,
		NewCustomerPolicy(s.customerRpsMock),
		transactor.Nop,
		s.notifierMock,
		func() time.Time { return now },
	)
}

func (s *customerServiceTestSuite) TestFindByIDNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()

	s.T().Log("missing customer must be reported as not found")
	{
		c, err := s.customerSvc.FindByID(ctx, customer.ID)
		s.Assert().Nil(c, "no customer must be returned")
		var notFoundErr *customerErrors.EntryNotFoundErr
		s.Assert().ErrorAs(err, &notFoundErr, "not found error must be raised")
	}
}

func (s *customerServiceTestSuite) TestFindByIDStorageFailed() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	cause := errors.New("connection reset")

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(nil, cause).Once()

	s.T().Log("repository failure must surface as storage error")
	{
		_, err := s.customerSvc.FindByID(ctx, customer.ID)
		var storageErr *customerErrors.StorageErr
		s.Assert().ErrorAs(err, &storageErr, "storage error must be raised")
		s.Assert().ErrorIs(err, cause, "cause must be preserved")
	}
}

func (s *customerServiceTestSuite) TestCreateSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	now := s.testData.now

	s.customerRpsMock.On("ExistsByEmail", ctx, customer.Email, "").Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).
		Return(func(_ context.Context, c *model.Customer) *model.Customer {
			saved := *c
			saved.ID = "2b0a1d8e-67c4-4a7b-bc32-3f0f7f8e3d2a"
			return &saved
		}, nil).Once()
	s.notifierMock.On("Broadcast", ctx, mock.MatchedBy(func(e model.Event) bool {
		return e.Topic == model.TopicCustomerCreated && e.CustomerID == "2b0a1d8e-67c4-4a7b-bc32-3f0f7f8e3d2a" && e.Customer != nil
	})).Return(nil).Once()

	s.T().Log("customer is stamped, saved and broadcast")
	{
		c, err := s.customerSvc.Create(ctx, customer)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal("2b0a1d8e-67c4-4a7b-bc32-3f0f7f8e3d2a", c.ID, "id assigned by repository must be returned")
		s.Assert().Equal(now, c.RegisteredAt, "registration time must be stamped")
		s.Assert().Equal(c.RegisteredAt, c.UpdatedAt, "update time must equal registration time on create")
	}
}

func (s *customerServiceTestSuite) TestCreateDuplicateEmail() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByEmail", ctx, customer.Email, "").Return(true, nil).Once()
	rejectedBefore := counterValue(s.T(), metrics.CustomersRejectedTotal.WithLabelValues("DuplicateEmail"))

	s.T().Log("customer with taken email must be rejected before save")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Assert().ErrorIs(err, customerErrors.ErrDuplicateEmail, "duplicate email error must be raised")
		s.customerRpsMock.AssertNotCalled(s.T(), "Save", ctx, mock.Anything)
		s.notifierMock.AssertNotCalled(s.T(), "Broadcast", ctx, mock.Anything)
	}

	s.T().Log("rejection is counted under business error code")
	{
		rejectedAfter := counterValue(s.T(), metrics.CustomersRejectedTotal.WithLabelValues("DuplicateEmail"))
		s.Assert().Equal(rejectedBefore+1, rejectedAfter, "rejection must be counted once")
	}
}

func (s *customerServiceTestSuite) TestCreateStorageFailed() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByEmail", ctx, customer.Email, "").Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).Return(nil, errors.New("disk full")).Once()

	s.T().Log("failed save is reported as storage error and never broadcast")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		var storageErr *customerErrors.StorageErr
		s.Assert().ErrorAs(err, &storageErr, "storage error must be raised")
		s.notifierMock.AssertNotCalled(s.T(), "Broadcast", ctx, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestCreateBroadcastFailureIsolated() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByEmail", ctx, customer.Email, "").Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).
		Return(func(_ context.Context, c *model.Customer) *model.Customer { return c }, nil).Once()
	s.notifierMock.On("Broadcast", ctx, mock.AnythingOfType("model.Event")).Return(errors.New("broker down")).Once()

	s.T().Log("broadcast failure must not fail committed write")
	{
		c, err := s.customerSvc.Create(ctx, customer)
		s.Assert().NoError(err, "broadcast error must be swallowed")
		s.Assert().NotNil(c, "created customer must be returned")
	}
}

func (s *customerServiceTestSuite) TestUpdateNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()

	s.T().Log("update of missing customer must fail with not found")
	{
		_, err := s.customerSvc.Update(ctx, customer.ID, customer)
		var notFoundErr *customerErrors.EntryNotFoundErr
		s.Assert().ErrorAs(err, &notFoundErr, "not found error must be raised")
		s.customerRpsMock.AssertNotCalled(s.T(), "ExistsByEmail", ctx, mock.Anything, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestUpdateKeepsIdentityAndRegistration() {
	ctx := s.testData.ctx
	existing := s.testData.customer
	now := s.testData.now

	changes := &model.Customer{
		ID:           "ignored-client-id",
		Name:         "John Walls Jr",
		PersonType:   model.PersonTypeIndividual,
		Email:        existing.Email,
		RegisteredAt: now.Add(time.Hour),
	}

	s.customerRpsMock.On("FindByID", ctx, existing.ID).Return(existing, nil).Once()
	s.customerRpsMock.On("ExistsByEmail", ctx, existing.Email, existing.ID).Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).
		Return(func(_ context.Context, c *model.Customer) *model.Customer { return c }, nil).Once()
	s.notifierMock.On("Broadcast", ctx, mock.MatchedBy(func(e model.Event) bool {
		return e.Topic == model.TopicCustomerUpdated && e.CustomerID == existing.ID
	})).Return(nil).Once()

	s.T().Log("update keeps id and registration time, refreshes update time")
	{
		c, err := s.customerSvc.Update(ctx, existing.ID, changes)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal(existing.ID, c.ID, "id must never change")
		s.Assert().Equal(existing.RegisteredAt, c.RegisteredAt, "registration time must be preserved")
		s.Assert().Equal(now, c.UpdatedAt, "update time must be refreshed")
		s.Assert().Equal("John Walls Jr", c.Name, "changes must be applied")
	}
}

func (s *customerServiceTestSuite) TestUpdateRemovedConcurrently() {
	ctx := s.testData.ctx
	existing := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, existing.ID).Return(existing, nil).Once()
	s.customerRpsMock.On("ExistsByEmail", ctx, existing.Email, existing.ID).Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).Return(nil, nil).Once()

	s.T().Log("update matching no stored customer fails with not found")
	{
		_, err := s.customerSvc.Update(ctx, existing.ID, existing)
		var notFoundErr *customerErrors.EntryNotFoundErr
		s.Assert().ErrorAs(err, &notFoundErr, "not found error must be raised")
		s.notifierMock.AssertNotCalled(s.T(), "Broadcast", ctx, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDCommitFailed() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	cause := errors.New("failed to commit transaction - conn closed")

	failingTrx := transactor.TransactorFunc(func(ctx context.Context, txFunc func(context.Context) error) error {
		if err := txFunc(ctx); err != nil {
			return err
		}
		return cause
	})
	customerSvc := NewCustomerService(s.customerRpsMock, NewCustomerPolicy(s.customerRpsMock), failingTrx, s.notifierMock, nil)

	s.customerRpsMock.On("ExistsByID", ctx, customer.ID).Return(true, nil).Once()
	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()

	s.T().Log("commit failure is reported as storage error and never broadcast")
	{
		err := customerSvc.DeleteByID(ctx, customer.ID)
		var storageErr *customerErrors.StorageErr
		s.Assert().ErrorAs(err, &storageErr, "storage error must be raised")
		s.Assert().ErrorIs(err, cause, "cause must be preserved")
		s.notifierMock.AssertNotCalled(s.T(), "Broadcast", ctx, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByID", ctx, customer.ID).Return(false, nil).Once()

	s.T().Log("delete of missing customer fails and is never broadcast")
	{
		err := s.customerSvc.DeleteByID(ctx, customer.ID)
		var notFoundErr *customerErrors.EntryNotFoundErr
		s.Assert().ErrorAs(err, &notFoundErr, "not found error must be raised")
		s.customerRpsMock.AssertNotCalled(s.T(), "DeleteByID", ctx, customer.ID)
		s.notifierMock.AssertNotCalled(s.T(), "Broadcast", ctx, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByID", ctx, customer.ID).Return(true, nil).Once()
	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()
	s.notifierMock.On("Broadcast", ctx, mock.MatchedBy(func(e model.Event) bool {
		return e.Topic == model.TopicCustomerDeleted && e.CustomerID == customer.ID && e.Customer == nil
	})).Return(nil).Once()

	s.T().Log("deleted successfully and deletion broadcast carries id only")
	{
		err := s.customerSvc.DeleteByID(ctx, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
	}
}

func (s *customerServiceTestSuite) TestRecentLimitClamped() {
	ctx := s.testData.ctx

	s.customerRpsMock.On("RecentFirst", ctx, DefaultRecentLimit).Return([]*model.Customer{}, nil).Once()
	s.customerRpsMock.On("RecentFirst", ctx, MaxRecentLimit).Return([]*model.Customer{}, nil).Once()

	s.T().Log("missing limit falls back to default and oversized limit is capped")
	{
		_, err := s.customerSvc.Recent(ctx, 0)
		s.Assert().NoError(err)
		_, err = s.customerSvc.Recent(ctx, 1000)
		s.Assert().NoError(err)
	}
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(customerServiceTestSuite))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m), "failed to read counter")
	return m.GetCounter().GetValue()
}

func TestCachedCustomerServiceDeletedStaysDeleted(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	repo := newMemoryCustomerRepository()
	memCache := newMemoryCustomerCache()
	customerRepo := repository.NewCachedCustomerRepository(repo, memCache)
	svc := NewCustomerService(customerRepo, NewCustomerPolicy(customerRepo), committingTransactor, notifier.Nop, now)

	var customer *model.Customer

	t.Log("customer is created and read through cache")
	{
		var err error
		customer, err = svc.Create(ctx, &model.Customer{Name: "Ana Souza", Email: "ana@x.com"})
		require.NoError(t, err)

		_, err = svc.FindByID(ctx, customer.ID)
		require.NoError(t, err)

		cached, err := memCache.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		require.NotNil(t, cached, "read outside of transaction must populate cache")
	}

	t.Log("delete evicts cached copy")
	{
		require.NoError(t, svc.DeleteByID(ctx, customer.ID))

		cached, err := memCache.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		require.Nil(t, cached, "committed delete must evict cached copy")
	}

	t.Log("update ignores stale cached copy and doesn't recreate customer")
	{
		require.NoError(t, memCache.Create(ctx, customer))

		_, err := svc.Update(ctx, customer.ID, &model.Customer{Name: "Ana Souza", Email: "ana@x.com"})
		var notFoundErr *customerErrors.EntryNotFoundErr
		require.ErrorAs(t, err, &notFoundErr, "update of deleted customer must fail with not found")

		exists, err := repo.ExistsByID(ctx, customer.ID)
		require.NoError(t, err)
		require.False(t, exists, "deleted customer must not be recreated")
	}
}

func TestCustomerServiceScenarios(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	repo := newMemoryCustomerRepository()
	svc := NewCustomerService(repo, NewCustomerPolicy(repo), transactor.Nop, notifier.Nop, now)

	var customerA *model.Customer

	t.Log("customer A with email a@x.com is created")
	{
		var err error
		customerA, err = svc.Create(ctx, &model.Customer{Name: "A", Email: "a@x.com"})
		require.NoError(t, err)
		require.NotEmpty(t, customerA.ID)
		require.Equal(t, customerA.RegisteredAt, customerA.UpdatedAt)
	}

	t.Log("customer B with the same email is rejected")
	{
		_, err := svc.Create(ctx, &model.Customer{Name: "B", Email: "a@x.com"})
		require.ErrorIs(t, err, customerErrors.ErrDuplicateEmail)
	}

	t.Log("customer A can be updated keeping its own email")
	{
		updated, err := svc.Update(ctx, customerA.ID, &model.Customer{Name: "A renamed", Email: "a@x.com"})
		require.NoError(t, err, "own email must be excluded from uniqueness check")
		require.Equal(t, customerA.RegisteredAt, updated.RegisteredAt)
		require.True(t, updated.UpdatedAt.After(customerA.UpdatedAt), "update time must strictly advance even with frozen clock")
	}

	t.Log("organizations can't share organization id")
	{
		org := &model.Customer{Name: "Acme", PersonType: model.PersonTypeOrganization, OrganizationID: "11444777000161"}
		_, err := svc.Create(ctx, org)
		require.NoError(t, err)

		_, err = svc.Create(ctx, org)
		require.ErrorIs(t, err, customerErrors.ErrDuplicateOrganizationID)
	}

	t.Log("individuals are not checked for organization id uniqueness")
	{
		_, err := svc.Create(ctx, &model.Customer{Name: "Legacy", PersonType: model.PersonTypeIndividual, OrganizationID: "11444777000161"})
		require.NoError(t, err)
	}

	t.Log("email is checked before organization id")
	{
		_, err := svc.Create(ctx, &model.Customer{
			Name:           "Both",
			PersonType:     model.PersonTypeOrganization,
			OrganizationID: "11444777000161",
			Email:          "a@x.com",
		})
		require.ErrorIs(t, err, customerErrors.ErrDuplicateEmail, "first failing rule wins")
	}

	t.Log("deleted customer is gone")
	{
		require.NoError(t, svc.DeleteByID(ctx, customerA.ID))

		_, err := svc.FindByID(ctx, customerA.ID)
		var notFoundErr *customerErrors.EntryNotFoundErr
		require.ErrorAs(t, err, &notFoundErr)

		err = svc.DeleteByID(ctx, customerA.ID)
		require.ErrorAs(t, err, &notFoundErr, "second delete must fail with not found")
	}

	t.Log("search matches name or email ignoring case")
	{
		found, err := svc.Search(ctx, "ACME")
		require.NoError(t, err)
		require.Len(t, found, 1)
	}
}
