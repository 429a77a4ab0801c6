package interceptors

import (
	"context"
	"errors"
	"net/http"

	customerErrors "github.com/celidone/customers/internal/errors"
	"github.com/celidone/customers/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func httpToGrpcCode(s int) codes.Code {
	switch s {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// ErrorUnaryInterceptor converts error retrieved from handler to gRPC error with corresponding code
func ErrorUnaryInterceptor(applicables ...UnaryInterceptorApplicable) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		if !isUnaryInterceptorApplicable(info, applicables...) {
			return h(ctx, req)
		}

		res, err := h(ctx, req)
		if err == nil {
			return res, nil
		}
		return nil, grpcError(info.FullMethod, err)
	}
}

// ErrorStreamInterceptor converts error returned by stream handler to gRPC error with corresponding code
func ErrorStreamInterceptor(applicables ...StreamInterceptorApplicable) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, h grpc.StreamHandler) error {
		if !isStreamInterceptorApplicable(info, applicables...) {
			return h(srv, ss)
		}

		if err := h(srv, ss); err != nil {
			return grpcError(info.FullMethod, err)
		}
		return nil
	}
}

func grpcError(method string, err error) error {
	if _, ok := status.FromError(err); ok { // it is already grpc status error
		return err
	}

	code := codes.Internal

	var echoErr *echo.HTTPError
	var businessErr *customerErrors.BusinessErr
	var payloadErr *validation.PayloadError
	var notFoundErr *customerErrors.EntryNotFoundErr

	switch {
	case errors.As(err, &businessErr):
		code = codes.AlreadyExists
	case errors.As(err, &payloadErr):
		code = codes.InvalidArgument
	case errors.As(err, &notFoundErr):
		code = codes.NotFound
	case errors.As(err, &echoErr):
		code = httpToGrpcCode(echoErr.Code)
	}

	if code == codes.Internal {
		logrus.WithField("method", method).Errorf("error occurred on grpc request processing - %v", err)
		return status.Error(code, "Internal server error")
	}
	return status.Error(code, err.Error())
}
