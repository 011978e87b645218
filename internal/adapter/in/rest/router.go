package rest

import (
	"encoding/json"
	"net/http"
	"postboard/pkg/logger"

	"github.com/gorilla/mux"
)

const (
	routeHealth  = "healthz"
	routeMetrics = "metrics"
)

// RouterContext is created per request and passed along a handler chain.
// Guards fill it in for the handlers that follow them.
type RouterContext struct {
	deps     *Deps
	username string
	postID   int64
}

type Handler func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError

// Handle runs handlers in order until one of them returns an error that
// stops the chain.
func Handle(deps *Deps, handlers ...Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &RouterContext{deps: deps}
		w.Header().Set("Content-Type", "application/json")

		for _, handler := range handlers {
			e := handler(rc, w, r)
			if e == nil {
				continue
			}

			log := logger.FromContext(r.Context())
			switch e.Level {
			case LevelRespond:
				writeError(w, e)
				return

			case LevelWarn:
				log.Warn("request warning", "error", e.IError, "path", r.URL.Path)

			default:
				log.Error("request failed", "error", e.IError, "path", r.URL.Path, "status", e.Status)
				writeError(w, e)
				return
			}
		}
	})
}

func writeError(w http.ResponseWriter, e *HTTPError) {
	w.WriteHeader(e.Status)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(http.StatusText(http.StatusInternalServerError)))
	}
}

func NewRouter(deps *Deps) *mux.Router {
	r := mux.NewRouter()
	requestLog := RequestLogger(deps)
	r.Use(requestLog)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet).Name(routeHealth)

	if h, ok := deps.Metrics.(interface{ Handler() http.Handler }); ok {
		r.Handle("/metrics", h.Handler()).Methods(http.MethodGet).Name(routeMetrics)
	}

	r.Handle("/users/register", Handle(deps,
		registerUser(),
	)).Methods(http.MethodPost)

	r.Handle("/users/login", Handle(deps,
		login(),
	)).Methods(http.MethodPost)

	r.Handle("/posts", Handle(deps,
		createPost(),
	)).Methods(http.MethodPost)

	r.Handle("/posts", Handle(deps,
		listPosts(),
	)).Methods(http.MethodGet)

	r.Handle("/posts/{id}", Handle(deps,
		authenticate(),
		parsePostID(),
		updatePost(),
	)).Methods(http.MethodPut)

	r.Handle("/posts/{id}", Handle(deps,
		authenticate(),
		parsePostID(),
		deletePost(),
	)).Methods(http.MethodDelete)

	r.Handle("/posts/{id}/like", Handle(deps,
		authenticate(),
		parsePostID(),
		likePost(),
	)).Methods(http.MethodPost)

	r.Handle("/posts/{id}/comment", Handle(deps,
		authenticate(),
		parsePostID(),
		commentPost(),
	)).Methods(http.MethodPost)

	r.Handle("/posts/{id}/comments", Handle(deps,
		parsePostID(),
		listComments(),
	)).Methods(http.MethodGet)

	r.Handle("/search/users", Handle(deps,
		searchUsers(),
	)).Methods(http.MethodGet)

	r.Handle("/search/posts", Handle(deps,
		searchPosts(),
	)).Methods(http.MethodGet)

	// mux does not run middleware for unmatched requests
	r.NotFoundHandler = requestLog(Handle(deps, routeNotFound()))
	r.MethodNotAllowedHandler = requestLog(Handle(deps, methodNotAllowed()))
	return r
}
