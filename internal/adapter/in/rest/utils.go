package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"postboard/internal/service"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// authenticate resolves the acting user from the bearer token. Requests
// without a token get 401, requests with a bad or expired one get 403.
func authenticate() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			return serviceError(service.ErrUnauthenticated)
		}

		username, err := rc.deps.Credentials.Verify(token)
		if err != nil {
			return serviceError(err)
		}

		rc.username = username
		setRequestUser(r.Context(), username)
		return nil
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// parsePostID reads {id} from the path. Anything that is not a positive
// integer cannot name a post, so it is reported as not found.
func parsePostID() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil || id <= 0 {
			return serviceError(fmt.Errorf("post id %q: %w", mux.Vars(r)["id"], service.ErrNotFound))
		}
		rc.postID = id
		return nil
	}
}

// decodeJSON fills dst from the request body. An empty body leaves dst as is.
func decodeJSON(r *http.Request, dst any) *HTTPError {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &HTTPError{
		IError:    err,
		Level:     LevelRespond,
		Status:    http.StatusBadRequest,
		Message:   "Request body is not valid JSON.",
		ErrorCode: ErrParsing,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) *HTTPError {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return &HTTPError{
			IError: err,
			Level:  LevelWarn,
		}
	}
	return nil
}
