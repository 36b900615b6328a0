package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/endpoint"

	"github.com/ironsheep/image-pixel-text/internal/service"
)

// Endpoints collects the service's go-kit endpoints.
type Endpoints struct {
	Upload endpoint.Endpoint
}

// MakeEndpoints wraps s in endpoints that give every request at most timeout
// to finish. A zero timeout leaves requests unbounded.
func MakeEndpoints(s service.Service, timeout time.Duration) Endpoints {
	return Endpoints{
		Upload: TimeoutMiddleware(timeout)(MakeUploadEndpoint(s)),
	}
}

// MakeUploadEndpoint adapts Service.Upload. The request must be a
// service.UploadRequest.
func MakeUploadEndpoint(s service.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(service.UploadRequest)
		if !ok {
			return nil, service.NewError(service.KindInternal, "unexpected request type",
				fmt.Errorf("got %T", request))
		}
		return s.Upload(ctx, req)
	}
}

// TimeoutMiddleware bounds each call with a deadline of d.
func TimeoutMiddleware(d time.Duration) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			if d <= 0 {
				return next(ctx, request)
			}
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, request)
		}
	}
}
