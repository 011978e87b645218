package rest

import (
	"context"
	"log/slog"
	"postboard/internal/model"
	"postboard/internal/service"
	"time"
)

// TopicRequests is the event bus topic carrying one entry per served request.
const TopicRequests = "requests"

type AccountService interface {
	Register(ctx context.Context, req service.RegisterRequest) (model.Account, error)
	Authenticate(ctx context.Context, username, password string) (model.Account, error)
	Search(ctx context.Context, q service.AccountSearch) ([]model.Account, error)
}

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	ListPosts(ctx context.Context, f service.PostFilter) ([]model.Post, error)
	SearchPosts(ctx context.Context, q service.PostSearch) ([]model.Post, error)
	UpdatePost(ctx context.Context, req service.UpdatePostRequest) (model.Post, error)
	DeletePost(ctx context.Context, postID int64, actingUser string) error
	LikePost(ctx context.Context, postID int64, actingUser string) (model.Post, error)
	CommentPost(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)
}

type CredentialService interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, entry model.LogEntry) error
}

type MetricsObserver interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
	AuditDropped()
}

// Deps is shared by every handler chain. Events, Metrics and Logger are
// optional.
type Deps struct {
	Accounts    AccountService
	Posts       PostService
	Credentials CredentialService
	Events      EventPublisher
	Metrics     MetricsObserver
	Logger      *slog.Logger
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
