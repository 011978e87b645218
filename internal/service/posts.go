package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"postboard/internal/adapter/out/storage"
	"postboard/internal/model"
	"slices"
	"strings"
)

// postsDocument is the stored form of the posts collection. NextID survives
// deletions, so ids are never handed out twice.
type postsDocument struct {
	NextID int64        `json:"next_id"`
	Posts  []model.Post `json:"posts"`
}

// UnmarshalJSON also accepts a bare array of posts, the layout used before
// the id counter was stored.
func (d *postsDocument) UnmarshalJSON(b []byte) error {
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		var posts []model.Post
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return err
		}
		*d = postsDocument{Posts: posts}
		return nil
	}

	type plain postsDocument
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = postsDocument(p)
	return nil
}

func (d *postsDocument) allocateID() int64 {
	id := max(d.NextID, 1)
	for _, p := range d.Posts {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	d.NextID = id + 1
	return id
}

func (d *postsDocument) index(postID int64) int {
	return slices.IndexFunc(d.Posts, func(p model.Post) bool {
		return p.ID == postID
	})
}

// PostService is the ledger of posts together with their likes and comments.
type PostService struct {
	posts *Collection[postsDocument]
	opts  Options
}

func NewPostService(store DocumentStore, opts Options) *PostService {
	return &PostService{
		posts: NewCollection(store, storage.CollectionPosts, func() postsDocument {
			return postsDocument{Posts: []model.Post{}}
		}),
		opts: opts.withDefaults(),
	}
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	if err := validateRequest(req); err != nil {
		return model.Post{}, err
	}

	var created model.Post
	err := s.posts.Update(ctx, func(doc *postsDocument) error {
		created = model.Post{
			ID:        doc.allocateID(),
			Title:     req.Title,
			Content:   req.Content,
			Author:    req.Author,
			Timestamp: s.opts.Now(),
		}
		doc.Posts = append(doc.Posts, created)
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return created, nil
}

func (s *PostService) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	doc, err := s.posts.Load(ctx)
	if err != nil {
		return model.Post{}, err
	}

	i := doc.index(postID)
	if i < 0 {
		return model.Post{}, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	return doc.Posts[i], nil
}

// ListPosts keeps insertion order. Author must match exactly, keyword is a
// substring of either title or content.
func (s *PostService) ListPosts(ctx context.Context, f PostFilter) ([]model.Post, error) {
	return s.filter(ctx, func(p model.Post) bool {
		if f.Author != "" && p.Author != f.Author {
			return false
		}
		if f.Keyword != "" && !strings.Contains(p.Title, f.Keyword) && !strings.Contains(p.Content, f.Keyword) {
			return false
		}
		return true
	})
}

func (s *PostService) SearchPosts(ctx context.Context, q PostSearch) ([]model.Post, error) {
	return s.filter(ctx, func(p model.Post) bool {
		if q.Title != "" && !strings.Contains(p.Title, q.Title) {
			return false
		}
		if q.Content != "" && !strings.Contains(p.Content, q.Content) {
			return false
		}
		return true
	})
}

func (s *PostService) filter(ctx context.Context, keep func(model.Post) bool) ([]model.Post, error) {
	doc, err := s.posts.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Post, 0, len(doc.Posts))
	for _, p := range doc.Posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostService) UpdatePost(ctx context.Context, req UpdatePostRequest) (model.Post, error) {
	if req.ActingUser == "" {
		return model.Post{}, ErrUnauthenticated
	}

	var updated model.Post
	err := s.posts.Update(ctx, func(doc *postsDocument) error {
		i, err := doc.owned(req.PostID, req.ActingUser)
		if err != nil {
			return err
		}

		p := &doc.Posts[i]
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Content != nil {
			p.Content = *req.Content
		}
		updated = *p
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID int64, actingUser string) error {
	if actingUser == "" {
		return ErrUnauthenticated
	}

	return s.posts.Update(ctx, func(doc *postsDocument) error {
		i, err := doc.owned(postID, actingUser)
		if err != nil {
			return err
		}
		doc.Posts = slices.Delete(doc.Posts, i, i+1)
		return nil
	})
}

func (s *PostService) LikePost(ctx context.Context, postID int64, actingUser string) (model.Post, error) {
	if actingUser == "" {
		return model.Post{}, ErrUnauthenticated
	}

	var liked model.Post
	err := s.posts.Update(ctx, func(doc *postsDocument) error {
		i := doc.index(postID)
		if i < 0 {
			return fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}

		p := &doc.Posts[i]
		if p.LikedBy(actingUser) {
			return ErrAlreadyLiked
		}
		p.Likes = append(p.Likes, actingUser)
		liked = *p
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return liked, nil
}

func (s *PostService) CommentPost(ctx context.Context, req CreateCommentRequest) (model.Comment, error) {
	if req.ActingUser == "" {
		return model.Comment{}, ErrUnauthenticated
	}

	var created model.Comment
	err := s.posts.Update(ctx, func(doc *postsDocument) error {
		i := doc.index(req.PostID)
		if i < 0 {
			return fmt.Errorf("post %d: %w", req.PostID, ErrNotFound)
		}
		if err := validateRequest(req); err != nil {
			return err
		}

		created = model.Comment{
			Author:    req.ActingUser,
			Content:   req.Content,
			Timestamp: s.opts.Now(),
		}
		doc.Posts[i].Comments = append(doc.Posts[i].Comments, created)
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return created, nil
}

func (s *PostService) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	p, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.Comments == nil {
		return []model.Comment{}, nil
	}
	return p.Comments, nil
}

func (d *postsDocument) owned(postID int64, actingUser string) (int, error) {
	i := d.index(postID)
	if i < 0 {
		return -1, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	if d.Posts[i].Author != actingUser {
		return -1, fmt.Errorf("%w: not a post owner", ErrForbidden)
	}
	return i, nil
}
