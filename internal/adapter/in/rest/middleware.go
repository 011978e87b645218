package rest

import (
	"context"
	"net/http"
	"postboard/internal/model"
	"postboard/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	headerRequestID = "X-Request-ID"
	routeUnmatched  = "unmatched"
)

type requestInfoKey struct{}

// requestInfo lets guards deeper in the chain report who made the request
// back to the middleware that logs it.
type requestInfo struct {
	username string
}

func setRequestUser(ctx context.Context, username string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.username = username
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags each request with an id and a request-scoped logger,
// then logs it, counts it and publishes it for the audit log. Publishing
// never blocks the response.
func RequestLogger(deps *Deps) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, name := routeOf(r)
			if name == routeHealth || name == routeMetrics {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := r.Header.Get(headerRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(headerRequestID, requestID)

			log := deps.logger().With("request_id", requestID)
			info := &requestInfo{}
			ctx := logger.WithLogger(r.Context(), log)
			ctx = context.WithValue(ctx, requestInfoKey{}, info)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))
			elapsed := time.Since(start)

			log.Info("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", rec.status,
				"duration", elapsed,
			)

			if deps.Metrics != nil {
				deps.Metrics.ObserveRequest(route, r.Method, rec.status, elapsed)
			}

			if deps.Events == nil {
				return
			}
			err := deps.Events.Publish(ctx, TopicRequests, model.LogEntry{
				ID:        uuid.NewString(),
				Method:    r.Method,
				URL:       r.URL.RequestURI(),
				Status:    rec.status,
				Username:  info.username,
				RequestID: requestID,
				Timestamp: start.UTC(),
			})
			if err != nil {
				log.Warn("request log entry dropped", "error", err)
				if deps.Metrics != nil {
					deps.Metrics.AuditDropped()
				}
			}
		})
	}
}

func routeOf(r *http.Request) (template, name string) {
	route := mux.CurrentRoute(r)
	if route == nil {
		return routeUnmatched, ""
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		template = routeUnmatched
	}
	return template, route.GetName()
}
