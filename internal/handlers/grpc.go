package handlers

import (
	"context"

	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/notifier"
	"github.com/celidone/customers/internal/rpc"
	"github.com/celidone/customers/internal/service"
)

// CustomerGrpcHandler is gRPC handler for customers endpoint
type CustomerGrpcHandler struct {
	customerSvc service.CustomerService
	statsSvc    service.StatisticsService
	subscriber  notifier.Subscriber
}

// NewCustomerGrpcHandler builds CustomerGrpcHandler
func NewCustomerGrpcHandler(
	customerSvc service.CustomerService,
	statsSvc service.StatisticsService,
	subscriber notifier.Subscriber,
) *CustomerGrpcHandler {
	return &CustomerGrpcHandler{customerSvc: customerSvc, statsSvc: statsSvc, subscriber: subscriber}
}

// GetByID get customer by id
func (h *CustomerGrpcHandler) GetByID(ctx context.Context, req *rpc.CustomerIDRequest) (*model.Customer, error) {
	return h.customerSvc.FindByID(ctx, req.ID)
}

// GetAll get page of customers
func (h *CustomerGrpcHandler) GetAll(ctx context.Context, req *rpc.ListCustomersRequest) (*model.CustomerPage, error) {
	return h.customerSvc.FindAll(ctx, model.PageSpec{Page: req.Page, Size: req.Size})
}

// Create creates new customer
func (h *CustomerGrpcHandler) Create(ctx context.Context, req *rpc.CreateCustomerRequest) (*model.Customer, error) {
	p := customerPayload(req.Customer)

	candidate, err := p.customer()
	if err != nil {
		return nil, err
	}
	return h.customerSvc.Create(ctx, candidate)
}

// Update updates existing customer
func (h *CustomerGrpcHandler) Update(ctx context.Context, req *rpc.UpdateCustomerRequest) (*model.Customer, error) {
	p := customerPayload(req.Customer)

	candidate, err := p.customer()
	if err != nil {
		return nil, err
	}
	return h.customerSvc.Update(ctx, req.ID, candidate)
}

// DeleteByID deletes customer by id
func (h *CustomerGrpcHandler) DeleteByID(ctx context.Context, req *rpc.CustomerIDRequest) (*rpc.Empty, error) {
	if err := h.customerSvc.DeleteByID(ctx, req.ID); err != nil {
		return nil, err
	}
	return new(rpc.Empty), nil
}

// Stats computes customers statistics
func (h *CustomerGrpcHandler) Stats(ctx context.Context, _ *rpc.Empty) (*model.StatsSnapshot, error) {
	return h.statsSvc.Snapshot(ctx)
}

// Watch streams change events of requested topics until client goes away
func (h *CustomerGrpcHandler) Watch(req *rpc.WatchRequest, stream rpc.WatchServer) error {
	ctx := stream.Context()

	events, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		return err
	}

	topics := make(map[string]struct{}, len(req.Topics))
	for _, t := range req.Topics {
		topics[t] = struct{}{}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}

			if _, wanted := topics[e.Topic]; len(topics) > 0 && !wanted {
				continue
			}

			if err := stream.Send(&e); err != nil {
				return err
			}
		}
	}
}
