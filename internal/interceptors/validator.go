package interceptors

import (
	"context"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
)

// ValidatorUnaryInterceptor validates request payload with the same rules http payloads follow.
// Violations are returned as is, ErrorUnaryInterceptor converts them to InvalidArgument.
func ValidatorUnaryInterceptor(v echo.Validator, applicables ...UnaryInterceptorApplicable) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		if !isUnaryInterceptorApplicable(info, applicables...) {
			return h(ctx, req)
		}

		if err := v.Validate(req); err != nil {
			return nil, err
		}

		return h(ctx, req)
	}
}

type validatingServerStream struct {
	grpc.ServerStream
	v echo.Validator
}

func (s *validatingServerStream) RecvMsg(m any) error {
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return err
	}
	return s.v.Validate(m)
}

// ValidatorStreamInterceptor validates every message received from client stream
func ValidatorStreamInterceptor(v echo.Validator, applicables ...StreamInterceptorApplicable) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, h grpc.StreamHandler) error {
		if !isStreamInterceptorApplicable(info, applicables...) {
			return h(srv, ss)
		}
		return h(srv, &validatingServerStream{ServerStream: ss, v: v})
	}
}
