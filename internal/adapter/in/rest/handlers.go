package rest

import (
	"net/http"
	"postboard/internal/service"
)

func registerUser() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		var req registerRequest
		if e := decodeJSON(r, &req); e != nil {
			return e
		}

		_, err := rc.deps.Accounts.Register(r.Context(), service.RegisterRequest{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Bio:      req.Bio,
		})
		if err != nil {
			return serviceError(err)
		}

		return writeJSON(w, http.StatusCreated, MessageResponse{Message: "User successfully registered"})
	}
}

func login() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		var req loginRequest
		if e := decodeJSON(r, &req); e != nil {
			return e
		}

		acc, err := rc.deps.Accounts.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			return serviceError(err)
		}

		token, err := rc.deps.Credentials.Issue(acc.Username)
		if err != nil {
			return serviceError(err)
		}

		return writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful.", Token: token})
	}
}

func createPost() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		var req createPostRequest
		if e := decodeJSON(r, &req); e != nil {
			return e
		}

		post, err := rc.deps.Posts.CreatePost(r.Context(), service.CreatePostRequest{
			Title:   req.Title,
			Content: req.Content,
			Author:  req.Author,
		})
		if err != nil {
			return serviceError(err)
		}

		return writeJSON(w, http.StatusCreated, PostResponse{Message: "Post created successfully.", Post: post})
	}
}

func listPosts() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		q := r.URL.Query()
		posts, err := rc.deps.Posts.ListPosts(r.Context(), service.PostFilter{
			Author:  q.Get("author"),
			Keyword: q.Get("keyword"),
		})
		if err != nil {
			return serviceError(err)
		}
		return writeJSON(w, http.StatusOK, posts)
	}
}

func updatePost() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		var req updatePostRequest
		if e := decodeJSON(r, &req); e != nil {
			return e
		}

		post, err := rc.deps.Posts.UpdatePost(r.Context(), service.UpdatePostRequest{
			PostID:     rc.postID,
			ActingUser: rc.username,
			Title:      req.Title,
			Content:    req.Content,
		})
		if err != nil {
			return serviceError(err,
				msg(service.ErrNotFound, "Not found post"),
				msg(service.ErrForbidden, "You cannot edit this post."),
			)
		}

		return writeJSON(w, http.StatusOK, PostResponse{Message: "Post successfully edited.", Post: post})
	}
}

func deletePost() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		if err := rc.deps.Posts.DeletePost(r.Context(), rc.postID, rc.username); err != nil {
			return serviceError(err,
				msg(service.ErrForbidden, "You can not delete this post"),
			)
		}
		return writeJSON(w, http.StatusOK, MessageResponse{Message: "Post successfully deleted."})
	}
}

func likePost() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		post, err := rc.deps.Posts.LikePost(r.Context(), rc.postID, rc.username)
		if err != nil {
			return serviceError(err)
		}
		return writeJSON(w, http.StatusOK, LikeResponse{Message: "Post successfully liked.", Likes: len(post.Likes)})
	}
}

func commentPost() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		var req commentRequest
		if e := decodeJSON(r, &req); e != nil {
			return e
		}

		comment, err := rc.deps.Posts.CommentPost(r.Context(), service.CreateCommentRequest{
			PostID:     rc.postID,
			ActingUser: rc.username,
			Content:    req.Content,
		})
		if err != nil {
			return serviceError(err)
		}

		return writeJSON(w, http.StatusCreated, CommentResponse{Message: "Successfully commented", Comment: comment})
	}
}

func listComments() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		comments, err := rc.deps.Posts.ListComments(r.Context(), rc.postID)
		if err != nil {
			return serviceError(err, msg(service.ErrNotFound, "Post not found"))
		}
		return writeJSON(w, http.StatusOK, comments)
	}
}

func searchUsers() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		q := r.URL.Query()
		accs, err := rc.deps.Accounts.Search(r.Context(), service.AccountSearch{
			Username: q.Get("username"),
			Bio:      q.Get("bio"),
		})
		if err != nil {
			return serviceError(err)
		}
		return writeJSON(w, http.StatusOK, toAccountViews(accs))
	}
}

func searchPosts() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		q := r.URL.Query()
		posts, err := rc.deps.Posts.SearchPosts(r.Context(), service.PostSearch{
			Title:   q.Get("title"),
			Content: q.Get("content"),
		})
		if err != nil {
			return serviceError(err)
		}
		return writeJSON(w, http.StatusOK, posts)
	}
}

func routeNotFound() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		return &HTTPError{
			Level:     LevelRespond,
			Status:    http.StatusNotFound,
			Message:   "Route not found",
			ErrorCode: ErrNotFound,
		}
	}
}

func methodNotAllowed() Handler {
	return func(rc *RouterContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		return &HTTPError{
			Level:     LevelRespond,
			Status:    http.StatusMethodNotAllowed,
			Message:   http.StatusText(http.StatusMethodNotAllowed),
			ErrorCode: ErrMethodNotAllowed,
		}
	}
}
