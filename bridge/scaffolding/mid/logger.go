package mid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/telemetry"
)

// Logger writes information about the request to the logs.
func Logger(log *logger.Logger, tel web.Telemetry) web.Middleware {
	if tel == nil {
		tel = telemetry.NewTelemetry()
	}
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			now := time.Now()

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
			}
			traceID := tel.GetTraceID(ctx)

			log.InfoContext(ctx, "request started", "trace_id", traceID, "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)
			err := isError(resp)

			status := http.StatusOK
			if s, ok := resp.(interface{ HTTPStatus() int }); ok {
				status = s.HTTPStatus()
			}

			log.InfoContext(ctx, "request completed", "trace_id", traceID, "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr,
				"statuscode", status, "since", time.Since(now).String(), "failed", err != nil)

			return resp
		}
	}
}
