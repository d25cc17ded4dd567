package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/vidfriends/webclient/internal/client"
	"github.com/vidfriends/webclient/internal/logging"
)

// Messages shown to the user.
const (
	MsgLoggedIn          = "Logged in successfully"
	MsgRegistered        = "User registered successfully. You can now log in."
	MsgUploaded          = "Video uploaded successfully"
	MsgLoggedOut         = "Logged out"
	MsgLoginRequired     = "You must log in to upload videos"
	MsgConnectionError   = "Connection error"
	MsgInFlight          = "Request already in progress"
	MsgSessionStore      = "Error: unable to store session"
	MsgSessionClear      = "Error: unable to clear session"
	MsgInvalidVideo      = "Error: invalid video id"
	MsgUnexpected        = "Error: something went wrong"
	rejectedPrefix       = "Error: "
	defaultRejectMessage = "request failed"
)

// Outcome tells the front end what to show after a user action.
type Outcome struct {
	Success bool
	Message string

	// ShowAuth opens the login/register form.
	ShowAuth bool
	// CloseAuth closes it again after a successful login.
	CloseAuth bool
	// CloseUpload closes the upload form.
	CloseUpload bool
	// ResetForm clears the submitted form.
	ResetForm bool
}

// failure maps err onto the two user-facing error classes. Transport detail
// is logged only.
func failure(ctx context.Context, err error) Outcome {
	var rejected *client.RejectedError
	var validation *client.ValidationError

	switch {
	case errors.As(err, &rejected):
		msg := rejected.Message
		if msg == "" {
			msg = defaultRejectMessage
		}
		return Outcome{Message: rejectedPrefix + msg}
	case errors.As(err, &validation):
		return Outcome{Message: rejectedPrefix + strings.Join(validation.Messages(), " ")}
	case errors.Is(err, client.ErrNotAuthenticated):
		return Outcome{Message: MsgLoginRequired, ShowAuth: true}
	case errors.Is(err, client.ErrSessionPersist):
		logging.FromContext(ctx).Error("store session", "error", err)
		return Outcome{Message: MsgSessionStore}
	default:
		var transport *client.TransportError
		if errors.As(err, &transport) {
			return Outcome{Message: MsgConnectionError}
		}
		logging.FromContext(ctx).Error("unexpected action failure", "error", err)
		return Outcome{Message: MsgUnexpected}
	}
}
