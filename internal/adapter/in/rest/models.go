package rest

import "postboard/internal/model"

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type PostResponse struct {
	Message string     `json:"message"`
	Post    model.Post `json:"post"`
}

type LikeResponse struct {
	Message string `json:"message"`
	Likes   int    `json:"likes"`
}

type CommentResponse struct {
	Message string        `json:"message"`
	Comment model.Comment `json:"comment"`
}

// AccountView is an account as shown to other users.
type AccountView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio,omitempty"`
}

func toAccountViews(accs []model.Account) []AccountView {
	out := make([]AccountView, 0, len(accs))
	for _, a := range accs {
		out = append(out, AccountView{
			Username: a.Username,
			Email:    a.Email,
			Bio:      a.Bio,
		})
	}
	return out
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type commentRequest struct {
	Content string `json:"content"`
}
