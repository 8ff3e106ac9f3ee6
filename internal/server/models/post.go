package models

import "time"

// Post is a stored post. Theme and User are filled on reads that join the
// related rows; writes only look at ThemeID and UserID.
type Post struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Text      string      `json:"text"`
	ThemeID   int64       `json:"themeId"`
	UserID    int64       `json:"userId"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Theme     *Theme      `json:"theme,omitempty"`
	User      *PublicUser `json:"user,omitempty"`
}
