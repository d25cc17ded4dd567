package ui

import (
	"context"
	"sync"

	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/render"
	"github.com/vidfriends/webclient/internal/session"
)

// Options tunes controller behaviour.
type Options struct {
	// GuardDoubleSubmit rejects a submission while the same action is in flight.
	GuardDoubleSubmit bool
}

// Controller holds the page's event handlers. Front ends (CLI, portal) call
// it and present the returned Outcome.
type Controller struct {
	sessions *session.Store
	auth     Authenticator
	uploads  Uploader
	feed     Feed
	details  DetailsProvider
	links    Linker
	renderer *render.Renderer

	guard      bool
	loginMu    sync.Mutex
	registerMu sync.Mutex
	uploadMu   sync.Mutex
}

// Dependencies aggregates the collaborators of a Controller.
type Dependencies struct {
	Sessions *session.Store
	Auth     Authenticator
	Uploads  Uploader
	Feed     Feed
	Details  DetailsProvider
	Links    Linker
	Renderer *render.Renderer
}

// NewController wires the controller and subscribes navigation sync to the
// session so it runs after every session mutation.
func NewController(deps Dependencies, opts Options) *Controller {
	if deps.Sessions == nil || deps.Renderer == nil {
		panic("ui: controller requires a session store and a renderer")
	}
	deps.Sessions.Subscribe(deps.Renderer.SyncNavigation)
	deps.Renderer.SyncNavigation(deps.Sessions.Session())

	return &Controller{
		sessions: deps.Sessions,
		auth:     deps.Auth,
		uploads:  deps.Uploads,
		feed:     deps.Feed,
		details:  deps.Details,
		links:    deps.Links,
		renderer: deps.Renderer,
		guard:    opts.GuardDoubleSubmit,
	}
}

// Start restores the session, which resyncs navigation, then loads the feed.
func (c *Controller) Start(ctx context.Context) session.State {
	state := c.Restore(ctx)
	c.RefreshFeed(ctx)
	return state
}

// Restore reloads the persisted session without touching the feed.
func (c *Controller) Restore(ctx context.Context) session.State {
	return c.sessions.Restore(ctx)
}

// RefreshFeed reloads the feed region. Failures degrade to an empty feed.
func (c *Controller) RefreshFeed(ctx context.Context) []models.VideoSummary {
	if c.feed == nil {
		return nil
	}
	return c.feed.Refresh(ctx)
}

// Navigation returns the navigation currently projected from the session.
func (c *Controller) Navigation() render.Navigation {
	return c.renderer.Navigation()
}

// Renderer exposes the page state for presentation.
func (c *Controller) Renderer() *render.Renderer {
	return c.renderer
}

// State reports the session state.
func (c *Controller) State() session.State {
	return c.sessions.State()
}

// SubmitLogin handles the login form.
func (c *Controller) SubmitLogin(ctx context.Context, creds models.Credentials) Outcome {
	return c.guarded(&c.loginMu, func() Outcome {
		if err := c.auth.Login(ctx, creds); err != nil {
			return failure(ctx, err)
		}
		return Outcome{Success: true, Message: MsgLoggedIn, CloseAuth: true, ResetForm: true}
	})
}

// SubmitRegister handles the registration form. The session is unchanged.
func (c *Controller) SubmitRegister(ctx context.Context, req models.RegistrationRequest) Outcome {
	return c.guarded(&c.registerMu, func() Outcome {
		if err := c.auth.Register(ctx, req); err != nil {
			return failure(ctx, err)
		}
		return Outcome{Success: true, Message: MsgRegistered, ResetForm: true}
	})
}

// OpenUpload handles the upload affordance: anonymous users are routed to
// the auth flow instead.
func (c *Controller) OpenUpload() Outcome {
	if !c.sessions.IsAuthenticated() {
		return Outcome{Message: MsgLoginRequired, ShowAuth: true}
	}
	return Outcome{Success: true}
}

// SubmitUpload handles the upload form. It checks the session before any
// request; on success the upload form closes and the feed is refreshed once.
func (c *Controller) SubmitUpload(ctx context.Context, req models.UploadRequest) Outcome {
	if !c.sessions.IsAuthenticated() {
		return Outcome{Message: MsgLoginRequired, ShowAuth: true}
	}
	return c.guarded(&c.uploadMu, func() Outcome {
		if err := c.uploads.Upload(ctx, req); err != nil {
			return failure(ctx, err)
		}
		if inv, ok := c.details.(invalidator); ok {
			inv.Invalidate()
		}
		c.RefreshFeed(ctx)
		return Outcome{Success: true, Message: MsgUploaded, CloseUpload: true, ResetForm: true}
	})
}

// Logout clears the session; navigation follows through the listener.
func (c *Controller) Logout(ctx context.Context) Outcome {
	if err := c.sessions.Clear(ctx); err != nil {
		return Outcome{Message: MsgSessionClear}
	}
	return Outcome{Success: true, Message: MsgLoggedOut}
}

// Watch resolves the details shown on the watch view.
func (c *Controller) Watch(ctx context.Context, id int64) (models.VideoDetails, Outcome) {
	if id <= 0 {
		return models.VideoDetails{}, Outcome{Message: MsgInvalidVideo}
	}
	if c.details == nil {
		return models.VideoDetails{}, Outcome{Message: MsgUnexpected}
	}
	details, err := c.details.Details(ctx, id)
	if err != nil {
		return models.VideoDetails{}, failure(ctx, err)
	}
	return details, Outcome{Success: true}
}

// WatchURL is the full-page watch route on the service for id.
func (c *Controller) WatchURL(id int64) string {
	if c.links == nil {
		return render.WatchPath(id)
	}
	return c.links.WatchURL(id)
}

func (c *Controller) guarded(mu *sync.Mutex, fn func() Outcome) Outcome {
	if !c.guard {
		return fn()
	}
	if !mu.TryLock() {
		return Outcome{Message: MsgInFlight}
	}
	defer mu.Unlock()
	return fn()
}
