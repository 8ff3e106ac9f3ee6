// Package models holds the API payloads as seen by blogctl.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Theme struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	ThemeID   int64     `json:"themeId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Theme     *Theme    `json:"theme,omitempty"`
	User      *User     `json:"user,omitempty"`
}

// Session is the result of a successful login. Token includes the "Bearer "
// prefix and is sent back verbatim.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateThemeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	ThemeID int64  `json:"themeId"`
}

// PhotoUpload is a presigned upload slot for a profile photo.
type PhotoUpload struct {
	UploadURL string    `json:"upload_url"`
	Photo     string    `json:"photo"`
	ExpiresAt time.Time `json:"expires_at"`
}
