package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/session"
)

const formContentType = "application/x-www-form-urlencoded"

var errMissingToken = errors.New("login succeeded without a token")

// AuthClient performs the login and register transactions.
type AuthClient struct {
	api      *Client
	sessions *session.Store
}

// NewAuthClient wires an AuthClient to the session it updates.
func NewAuthClient(api *Client, sessions *session.Store) *AuthClient {
	if api == nil || sessions == nil {
		panic("client: auth client requires an API client and a session store")
	}
	return &AuthClient{api: api, sessions: sessions}
}

type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login sends creds once. On success the session becomes authenticated; on
// a rejection or transport failure the session is not touched.
func (a *AuthClient) Login(ctx context.Context, creds models.Credentials) error {
	if err := validateInput(creds); err != nil {
		return err
	}

	ctx, span := logging.StartSpan(ctx, "auth.login", slog.String("username", creds.Username))
	defer span.End()

	var out loginResponse
	if err := a.postForm(ctx, "login", pathLogin, creds, &out); err != nil {
		span.Fail(err)
		return err
	}
	if out.Token == "" {
		err := &TransportError{Op: "login", Err: errMissingToken}
		span.Fail(err)
		return err
	}

	if err := a.sessions.SetAuthenticated(ctx, out.Token, &models.UserSummary{Raw: out.User}); err != nil {
		span.Fail(err)
		return fmt.Errorf("%w: %v", ErrSessionPersist, err)
	}
	return nil
}

// Register sends a sign-up request once. Registering never logs the user in.
func (a *AuthClient) Register(ctx context.Context, req models.RegistrationRequest) error {
	if strings.TrimSpace(req.Role) == "" {
		req.Role = models.DefaultRole
	}
	if err := validateInput(req); err != nil {
		return err
	}

	ctx, span := logging.StartSpan(ctx, "auth.register", slog.String("username", req.Username))
	defer span.End()

	if err := a.postForm(ctx, "register", pathRegister, req, nil); err != nil {
		span.Fail(err)
		return err
	}
	return nil
}

func (a *AuthClient) postForm(ctx context.Context, op, path string, form any, out any) error {
	values, err := query.Values(form)
	if err != nil {
		return fmt.Errorf("encode %s form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.api.endpoint(path), strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", formContentType)

	err = a.api.send(ctx, op, req, out)
	logOutcome(ctx, op, err)
	return err
}

// logOutcome records failure details for diagnostics. Transport details
// never reach the user.
func logOutcome(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	logger := logging.FromContext(ctx)

	var rejected *RejectedError
	var transport *TransportError
	switch {
	case errors.As(err, &rejected):
		logger.Warn("request rejected", "op", op, "status", rejected.Status, "message", rejected.Message)
	case errors.As(err, &transport):
		logger.Error("request transport failure", "op", op, "error", transport.Err)
	}
}
