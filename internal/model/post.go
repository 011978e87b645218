package model

import (
	"slices"
	"time"
)

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Likes     []string  `json:"likes,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}

func (p Post) LikedBy(username string) bool {
	return slices.Contains(p.Likes, username)
}
