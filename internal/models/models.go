package models

import (
	"encoding/json"
	"io"
)

// Session is the client's belief about who is logged in. User is set iff Token is set.
type Session struct {
	Token string
	User  *UserSummary
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// UserSummary is the user object returned by the login endpoint. The client
// never interprets it beyond passing it through.
type UserSummary struct {
	Raw json.RawMessage
	// Placeholder marks a summary created from a restored token without a server round trip.
	Placeholder bool
}

// PlaceholderUser builds the stand-in summary used when a session is restored from storage.
func PlaceholderUser() *UserSummary {
	return &UserSummary{Placeholder: true}
}

// Credentials holds one login submission.
type Credentials struct {
	Username string `url:"username" validate:"required"`
	Password string `url:"password" validate:"required"`
}

// DefaultRole is applied to registrations that do not name one.
const DefaultRole = "student"

// RegistrationRequest holds one sign-up submission.
type RegistrationRequest struct {
	Username string `url:"username" validate:"required"`
	Email    string `url:"email" validate:"required,email"`
	Password string `url:"password" validate:"required"`
	Role     string `url:"role"`
}

// VideoFile is the binary part of an upload.
type VideoFile struct {
	Name    string
	Content io.Reader `form:"video" validate:"required"`
}

// UploadRequest holds one upload submission.
type UploadRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	Category    string `form:"category"`
	Tags        string `form:"tags"`
	File        VideoFile
}

// VideoSummary is one entry of the public feed.
type VideoSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Views       int64    `json:"views"`
	Likes       int64    `json:"likes"`
	CreatedAt   string   `json:"created_at,omitempty"`
	Duration    string   `json:"duration,omitempty"`
}

// VideoDetails is returned by the details endpoint backing the watch view.
type VideoDetails struct {
	VideoSummary
	Filename string `json:"filename"`
}

// FeedQuery narrows the list endpoint. Zero values are omitted from the query string.
type FeedQuery struct {
	Limit    int    `url:"limit,omitempty"`
	Offset   int    `url:"offset,omitempty"`
	Category string `url:"category,omitempty"`
}
