package rpc

import (
	"context"

	"github.com/celidone/customers/internal/model"
	"google.golang.org/grpc"
)

const ServiceName = "customers.CustomerService"

const (
	MethodGetByID    = "/" + ServiceName + "/GetByID"
	MethodGetAll     = "/" + ServiceName + "/GetAll"
	MethodCreate     = "/" + ServiceName + "/Create"
	MethodUpdate     = "/" + ServiceName + "/Update"
	MethodDeleteByID = "/" + ServiceName + "/DeleteByID"
	MethodStats      = "/" + ServiceName + "/Stats"
	MethodWatch      = "/" + ServiceName + "/Watch"
)

type Empty struct{}

type CustomerIDRequest struct {
	ID string `msgpack:"id" validate:"required,uuid"`
}

type ListCustomersRequest struct {
	Page int `msgpack:"page" validate:"min=0"`
	Size int `msgpack:"size" validate:"min=1,max=100"`
}

// CustomerFields carries client-editable customer fields
type CustomerFields struct {
	Name           string `msgpack:"name" validate:"required,max=100"`
	PersonType     string `msgpack:"personType" validate:"omitempty,oneof=INDIVIDUAL ORGANIZATION"`
	IndividualID   string `msgpack:"individualId" validate:"omitempty,max=14,cpf"`
	OrganizationID string `msgpack:"organizationId" validate:"omitempty,max=18,cnpj"`
	BirthDate      string `msgpack:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	PostalCode     string `msgpack:"postalCode" validate:"omitempty,cep"`
	Street         string `msgpack:"street" validate:"max=200"`
	Number         string `msgpack:"number" validate:"max=10"`
	City           string `msgpack:"city" validate:"max=100"`
	District       string `msgpack:"district" validate:"max=100"`
	Complement     string `msgpack:"complement" validate:"max=100"`
	State          string `msgpack:"state" validate:"omitempty,len=2"`
	Landline       string `msgpack:"landline" validate:"max=15"`
	Mobile         string `msgpack:"mobile" validate:"max=15"`
	Email          string `msgpack:"email" validate:"omitempty,email,max=100"`
}

type CreateCustomerRequest struct {
	Customer CustomerFields `msgpack:"customer"`
}

type UpdateCustomerRequest struct {
	ID       string         `msgpack:"id" validate:"required,uuid"`
	Customer CustomerFields `msgpack:"customer"`
}

// WatchRequest subscribes to change events, empty Topics means every topic
type WatchRequest struct {
	Topics []string `msgpack:"topics" validate:"dive,oneof=customer-created customer-updated customer-deleted"`
}

type CustomerServiceServer interface {
	GetByID(context.Context, *CustomerIDRequest) (*model.Customer, error)
	GetAll(context.Context, *ListCustomersRequest) (*model.CustomerPage, error)
	Create(context.Context, *CreateCustomerRequest) (*model.Customer, error)
	Update(context.Context, *UpdateCustomerRequest) (*model.Customer, error)
	DeleteByID(context.Context, *CustomerIDRequest) (*Empty, error)
	Stats(context.Context, *Empty) (*model.StatsSnapshot, error)
	Watch(*WatchRequest, WatchServer) error
}

type WatchServer interface {
	Send(*model.Event) error
	grpc.ServerStream
}

type watchServer struct {
	grpc.ServerStream
}

func (x *watchServer) Send(e *model.Event) error {
	return x.ServerStream.SendMsg(e)
}

func RegisterCustomerServiceServer(s grpc.ServiceRegistrar, srv CustomerServiceServer) {
	s.RegisterService(&CustomerServiceDesc, srv)
}

// CustomerServiceDesc describes customer service the way protoc-gen-go-grpc would
var CustomerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CustomerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetByID",
			Handler: unaryHandler(MethodGetByID, func(srv CustomerServiceServer, ctx context.Context, in *CustomerIDRequest) (any, error) {
				return srv.GetByID(ctx, in)
			}),
		},
		{
			MethodName: "GetAll",
			Handler: unaryHandler(MethodGetAll, func(srv CustomerServiceServer, ctx context.Context, in *ListCustomersRequest) (any, error) {
				return srv.GetAll(ctx, in)
			}),
		},
		{
			MethodName: "Create",
			Handler: unaryHandler(MethodCreate, func(srv CustomerServiceServer, ctx context.Context, in *CreateCustomerRequest) (any, error) {
				return srv.Create(ctx, in)
			}),
		},
		{
			MethodName: "Update",
			Handler: unaryHandler(MethodUpdate, func(srv CustomerServiceServer, ctx context.Context, in *UpdateCustomerRequest) (any, error) {
				return srv.Update(ctx, in)
			}),
		},
		{
			MethodName: "DeleteByID",
			Handler: unaryHandler(MethodDeleteByID, func(srv CustomerServiceServer, ctx context.Context, in *CustomerIDRequest) (any, error) {
				return srv.DeleteByID(ctx, in)
			}),
		},
		{
			MethodName: "Stats",
			Handler: unaryHandler(MethodStats, func(srv CustomerServiceServer, ctx context.Context, in *Empty) (any, error) {
				return srv.Stats(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
}

func unaryHandler[Req any](
	method string,
	call func(CustomerServiceServer, context.Context, *Req) (any, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(CustomerServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CustomerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(CustomerServiceServer).Watch(in, &watchServer{ServerStream: stream})
}

// CustomerServiceClient calls customer service, connection must use Codec
type CustomerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCustomerServiceClient(cc grpc.ClientConnInterface) *CustomerServiceClient {
	return &CustomerServiceClient{cc: cc}
}

// DialOptions returns options required to talk to customer service
func DialOptions() []grpc.DialOption {
	return []grpc.DialOption{grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{}))}
}

func (c *CustomerServiceClient) GetByID(ctx context.Context, in *CustomerIDRequest, opts ...grpc.CallOption) (*model.Customer, error) {
	out := new(model.Customer)
	if err := c.cc.Invoke(ctx, MethodGetByID, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CustomerServiceClient) GetAll(ctx context.Context, in *ListCustomersRequest, opts ...grpc.CallOption) (*model.CustomerPage, error) {
	out := new(model.CustomerPage)
	if err := c.cc.Invoke(ctx, MethodGetAll, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CustomerServiceClient) Create(ctx context.Context, in *CreateCustomerRequest, opts ...grpc.CallOption) (*model.Customer, error) {
	out := new(model.Customer)
	if err := c.cc.Invoke(ctx, MethodCreate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CustomerServiceClient) Update(ctx context.Context, in *UpdateCustomerRequest, opts ...grpc.CallOption) (*model.Customer, error) {
	out := new(model.Customer)
	if err := c.cc.Invoke(ctx, MethodUpdate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CustomerServiceClient) DeleteByID(ctx context.Context, in *CustomerIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, MethodDeleteByID, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CustomerServiceClient) Stats(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*model.StatsSnapshot, error) {
	out := new(model.StatsSnapshot)
	if err := c.cc.Invoke(ctx, MethodStats, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchClient receives change events until stream ends
type WatchClient interface {
	Recv() (*model.Event, error)
	grpc.ClientStream
}

type watchClient struct {
	grpc.ClientStream
}

func (x *watchClient) Recv() (*model.Event, error) {
	m := new(model.Event)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *CustomerServiceClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &CustomerServiceDesc.Streams[0], MethodWatch, opts...)
	if err != nil {
		return nil, err
	}

	x := &watchClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
