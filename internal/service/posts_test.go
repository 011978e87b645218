package service

import (
	"context"
	"postboard/internal/adapter/out/storage"
	"postboard/internal/adapter/out/storage/inmemory"
	"postboard/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newPostService(t *testing.T) *PostService {
	t.Helper()
	return NewPostService(inmemory.NewDocumentStore(), testOptions())
}

func mustCreatePost(t *testing.T, svc *PostService, title, content, author string) model.Post {
	t.Helper()

	p, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: title, Content: content, Author: author})
	require.NoError(t, err)
	return p
}

func postIDs(posts []model.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     CreatePostRequest
		wantErr error
	}{
		{
			name:    "validation error",
			req:     CreatePostRequest{Title: "t"},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "success",
			req:  CreatePostRequest{Title: "T", Content: "C", Author: "alice"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newPostService(t)
			got, err := svc.CreatePost(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(1), got.ID)
			require.Equal(t, "T", got.Title)
			require.Equal(t, "C", got.Content)
			require.Equal(t, "alice", got.Author)
			require.False(t, got.Timestamp.IsZero())
			require.Nil(t, got.Likes)
			require.Nil(t, got.Comments)
		})
	}
}

func TestPostService_IDsAreNotReusedAfterDelete(t *testing.T) {
	t.Parallel()

	svc := newPostService(t)
	ctx := context.Background()

	mustCreatePost(t, svc, "a", "a", "alice")
	second := mustCreatePost(t, svc, "b", "b", "alice")
	require.Equal(t, int64(2), second.ID)

	require.NoError(t, svc.DeletePost(ctx, second.ID, "alice"))

	third := mustCreatePost(t, svc, "c", "c", "alice")
	require.Equal(t, int64(3), third.ID)
}

func TestPostService_LegacyArrayDocument(t *testing.T) {
	t.Parallel()

	store := inmemory.NewDocumentStore()
	legacy := `[
  {"id": 1, "title": "old", "content": "post", "author": "alice", "timestamp": "2024-01-01T00:00:00Z"},
  {"id": 2, "title": "older", "content": "post", "author": "bob", "timestamp": "2024-01-02T00:00:00Z", "likes": ["alice"]}
]`
	require.NoError(t, store.Save(context.Background(), storage.CollectionPosts, []byte(legacy)))

	svc := NewPostService(store, testOptions())

	posts, err := svc.ListPosts(context.Background(), PostFilter{})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, postIDs(posts))
	require.Equal(t, []string{"alice"}, posts[1].Likes)

	created := mustCreatePost(t, svc, "new", "post", "carol")
	require.Equal(t, int64(3), created.ID)
}

func TestPostService_ListPosts(t *testing.T) {
	t.Parallel()

	svc := newPostService(t)
	mustCreatePost(t, svc, "Go tips", "use interfaces", "alice")
	mustCreatePost(t, svc, "Rust", "borrow checker tips", "bob")
	mustCreatePost(t, svc, "Cooking", "pasta", "alice")

	tests := []struct {
		name   string
		filter PostFilter
		want   []int64
	}{
		{name: "unfiltered keeps insertion order", filter: PostFilter{}, want: []int64{1, 2, 3}},
		{name: "author exact", filter: PostFilter{Author: "alice"}, want: []int64{1, 3}},
		{name: "author is not a substring match", filter: PostFilter{Author: "ali"}, want: []int64{}},
		{name: "keyword in title or content", filter: PostFilter{Keyword: "tips"}, want: []int64{1, 2}},
		{name: "conjunctive", filter: PostFilter{Author: "bob", Keyword: "tips"}, want: []int64{2}},
		{name: "keyword is case-sensitive", filter: PostFilter{Keyword: "TIPS"}, want: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.ListPosts(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, postIDs(got))
		})
	}
}

func TestPostService_SearchPosts(t *testing.T) {
	t.Parallel()

	svc := newPostService(t)
	mustCreatePost(t, svc, "Hello world", "first post", "alice")
	mustCreatePost(t, svc, "Hello again", "second post", "bob")
	mustCreatePost(t, svc, "Bye", "hello in content", "bob")

	tests := []struct {
		name string
		q    PostSearch
		want []int64
	}{
		{name: "empty", q: PostSearch{}, want: []int64{1, 2, 3}},
		{name: "title", q: PostSearch{Title: "Hello"}, want: []int64{1, 2}},
		{name: "content", q: PostSearch{Content: "post"}, want: []int64{1, 2}},
		{name: "both", q: PostSearch{Title: "Hello", Content: "second"}, want: []int64{2}},
		{name: "title only searches titles", q: PostSearch{Title: "hello"}, want: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.SearchPosts(context.Background(), tt.q)
			require.NoError(t, err)
			require.Equal(t, tt.want, postIDs(got))
		})
	}
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		req         UpdatePostRequest
		wantErr     error
		wantTitle   string
		wantContent string
	}{
		{
			name:        "title only",
			req:         UpdatePostRequest{PostID: 1, ActingUser: "alice", Title: strPtr("T2")},
			wantTitle:   "T2",
			wantContent: "C",
		},
		{
			name:        "no fields",
			req:         UpdatePostRequest{PostID: 1, ActingUser: "alice"},
			wantTitle:   "T",
			wantContent: "C",
		},
		{
			name:        "present empty field is applied",
			req:         UpdatePostRequest{PostID: 1, ActingUser: "alice", Content: strPtr("")},
			wantTitle:   "T",
			wantContent: "",
		},
		{
			name:    "not owner",
			req:     UpdatePostRequest{PostID: 1, ActingUser: "bob", Title: strPtr("hijack")},
			wantErr: ErrForbidden,
		},
		{
			name:    "not found",
			req:     UpdatePostRequest{PostID: 42, ActingUser: "alice", Title: strPtr("x")},
			wantErr: ErrNotFound,
		},
		{
			name:    "no acting user",
			req:     UpdatePostRequest{PostID: 1, Title: strPtr("x")},
			wantErr: ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newPostService(t)
			mustCreatePost(t, svc, "T", "C", "alice")

			got, err := svc.UpdatePost(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				stored, err := svc.GetPostByID(context.Background(), 1)
				require.NoError(t, err)
				require.Equal(t, "T", stored.Title)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantTitle, got.Title)
			require.Equal(t, tt.wantContent, got.Content)

			stored, err := svc.GetPostByID(context.Background(), 1)
			require.NoError(t, err)
			require.Equal(t, got, stored)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	svc := newPostService(t)
	ctx := context.Background()
	mustCreatePost(t, svc, "T", "C", "alice")
	mustCreatePost(t, svc, "U", "D", "bob")

	_, err := svc.CommentPost(ctx, CreateCommentRequest{PostID: 1, ActingUser: "bob", Content: "nice"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeletePost(ctx, 1, "bob"), ErrForbidden)
	require.ErrorIs(t, svc.DeletePost(ctx, 9, "alice"), ErrNotFound)
	require.ErrorIs(t, svc.DeletePost(ctx, 1, ""), ErrUnauthenticated)

	require.NoError(t, svc.DeletePost(ctx, 1, "alice"))

	posts, err := svc.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, postIDs(posts))

	_, err = svc.ListComments(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_LikePost(t *testing.T) {
	t.Parallel()

	svc := newPostService(t)
	ctx := context.Background()
	mustCreatePost(t, svc, "T", "C", "alice")

	p, err := svc.LikePost(ctx, 1, "bob")
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, p.Likes)

	_, err = svc.LikePost(ctx, 1, "bob")
	require.ErrorIs(t, err, ErrAlreadyLiked)

	p, err = svc.LikePost(ctx, 1, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"bob", "alice"}, p.Likes)

	_, err = svc.LikePost(ctx, 7, "bob")
	require.ErrorIs(t, err, ErrNotFound)

	stored, err := svc.GetPostByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stored.Likes, 2)
}

func TestPostService_Comments(t *testing.T) {
	t.Parallel()

	svc := newPostService(t)
	ctx := context.Background()
	mustCreatePost(t, svc, "T", "C", "alice")

	comments, err := svc.ListComments(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, comments)
	require.Empty(t, comments)

	_, err = svc.ListComments(ctx, 2)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CommentPost(ctx, CreateCommentRequest{PostID: 2, ActingUser: "bob", Content: "x"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CommentPost(ctx, CreateCommentRequest{PostID: 1, ActingUser: "bob"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	first, err := svc.CommentPost(ctx, CreateCommentRequest{PostID: 1, ActingUser: "bob", Content: "first"})
	require.NoError(t, err)
	require.Equal(t, "bob", first.Author)

	_, err = svc.CommentPost(ctx, CreateCommentRequest{PostID: 1, ActingUser: "alice", Content: "second"})
	require.NoError(t, err)

	comments, err = svc.ListComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Content)
	require.Equal(t, "second", comments[1].Content)
	require.True(t, comments[0].Timestamp.Before(comments[1].Timestamp))
}

func TestPostService_StorageFailuresAreNotCommitted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := NewMockDocumentStore(ctrl)
	m.EXPECT().
		Load(gomock.Any(), storage.CollectionPosts).
		Return([]byte(`{"next_id":2,"posts":[{"id":1,"title":"T","content":"C","author":"alice"}]}`), nil).
		Times(2)
	m.EXPECT().
		Save(gomock.Any(), storage.CollectionPosts, gomock.Any()).
		Return(storage.ErrUnavailable)

	svc := NewPostService(m, testOptions())

	_, err := svc.LikePost(context.Background(), 1, "bob")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	p, err := svc.GetPostByID(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, p.Likes)
}
