package infra

import (
	"github.com/celidone/customers/internal/interceptors"
	"github.com/celidone/customers/internal/rpc"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
)

// GrpcServer builds server speaking msgpack, errors are converted after payload is validated
func GrpcServer(v echo.Validator, customers rpc.CustomerServiceServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.ChainUnaryInterceptor(
			interceptors.ErrorUnaryInterceptor(interceptors.UnaryApplicableForService(rpc.ServiceName)),
			interceptors.ValidatorUnaryInterceptor(v, interceptors.UnaryApplicableForService(rpc.ServiceName)),
		),
		grpc.ChainStreamInterceptor(
			interceptors.ErrorStreamInterceptor(interceptors.StreamApplicableForService(rpc.ServiceName)),
			interceptors.ValidatorStreamInterceptor(v, interceptors.StreamApplicableForService(rpc.ServiceName)),
		),
	)

	rpc.RegisterCustomerServiceServer(server, customers)
	return server
}
