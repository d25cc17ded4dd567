package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vidfriends/webclient/internal/client"
	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/render"
	"github.com/vidfriends/webclient/internal/session"
)

type fakeAuth struct {
	loginErr    error
	registerErr error
	sessions    *session.Store
	logins      int
	registers   int
}

func (f *fakeAuth) Login(ctx context.Context, _ models.Credentials) error {
	f.logins++
	if f.loginErr != nil {
		return f.loginErr
	}
	return f.sessions.SetAuthenticated(ctx, "tok", nil)
}

func (f *fakeAuth) Register(context.Context, models.RegistrationRequest) error {
	f.registers++
	return f.registerErr
}

type fakeUploader struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
	entered chan struct{}
}

func (f *fakeUploader) Upload(context.Context, models.UploadRequest) error {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.err
}

type fakeFeed struct {
	refreshes atomic.Int32
}

func (f *fakeFeed) Refresh(context.Context) []models.VideoSummary {
	f.refreshes.Add(1)
	return []models.VideoSummary{}
}

type fakeDetails struct {
	invalidated atomic.Int32
}

func (f *fakeDetails) Details(_ context.Context, id int64) (models.VideoDetails, error) {
	if id == 404 {
		return models.VideoDetails{}, &client.RejectedError{Op: "details", Status: http.StatusNotFound, Message: "Video not found"}
	}
	return models.VideoDetails{VideoSummary: models.VideoSummary{ID: id, Title: "clip"}}, nil
}

func (f *fakeDetails) Invalidate() { f.invalidated.Add(1) }

type harness struct {
	ctrl     *Controller
	store    *session.Store
	slot     *session.MemorySlot
	auth     *fakeAuth
	uploads  *fakeUploader
	feed     *fakeFeed
	details  *fakeDetails
	renderer *render.Renderer
}

func newHarness(opts Options) *harness {
	slot := session.NewMemorySlot()
	store := session.NewStore(slot)
	h := &harness{
		store:    store,
		slot:     slot,
		auth:     &fakeAuth{sessions: store},
		uploads:  &fakeUploader{},
		feed:     &fakeFeed{},
		details:  &fakeDetails{},
		renderer: render.NewRenderer(),
	}
	h.ctrl = NewController(Dependencies{
		Sessions: store,
		Auth:     h.auth,
		Uploads:  h.uploads,
		Feed:     h.feed,
		Details:  h.details,
		Renderer: h.renderer,
	}, opts)
	return h
}

func sampleUpload() models.UploadRequest {
	return models.UploadRequest{
		Title:       "clip",
		Description: "a clip",
		Category:    "music",
		Tags:        "a,b",
		File:        models.VideoFile{Name: "clip.mp4", Content: strings.NewReader("data")},
	}
}

func TestStartRestoresSessionAndLoadsFeed(t *testing.T) {
	h := newHarness(Options{})
	_ = h.slot.Save(context.Background(), "persisted")

	state := h.ctrl.Start(context.Background())
	if state != session.Authenticated {
		t.Fatalf("expected authenticated after restore, got %v", state)
	}
	if h.ctrl.Navigation() != render.ProjectNavigation(true) {
		t.Fatalf("navigation not synced after restore: %+v", h.ctrl.Navigation())
	}
	if got := h.feed.refreshes.Load(); got != 1 {
		t.Fatalf("expected one feed refresh on start, got %d", got)
	}
}

func TestSessionTransitionTable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(Options{})

	steps := []struct {
		name string
		act  func()
		want bool
	}{
		{"restore without token", func() { h.ctrl.Start(ctx) }, false},
		{"login success", func() { h.ctrl.SubmitLogin(ctx, models.Credentials{Username: "a", Password: "b"}) }, true},
		{"logout", func() { h.ctrl.Logout(ctx) }, false},
		{"logout again", func() { h.ctrl.Logout(ctx) }, false},
		{"login success again", func() { h.ctrl.SubmitLogin(ctx, models.Credentials{Username: "a", Password: "b"}) }, true},
		{"restore with token", func() { h.ctrl.Start(ctx) }, true},
	}

	for _, step := range steps {
		step.act()
		if got := h.store.IsAuthenticated(); got != step.want {
			t.Fatalf("%s: IsAuthenticated() = %v, want %v", step.name, got, step.want)
		}
		if nav := h.ctrl.Navigation(); nav != render.ProjectNavigation(step.want) {
			t.Fatalf("%s: navigation %+v does not match session", step.name, nav)
		}
	}
}

func TestSubmitLoginOutcomes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", want: MsgLoggedIn},
		{name: "rejected", err: &client.RejectedError{Op: "login", Message: "bad credentials"}, want: "Error: bad credentials"},
		{name: "transport", err: &client.TransportError{Op: "login", Err: errors.New("dial tcp: refused")}, want: MsgConnectionError},
		{name: "persist", err: client.ErrSessionPersist, want: MsgSessionStore},
		{name: "validation", err: &client.ValidationError{Fields: map[string]string{"password": "The field 'password' is required."}}, want: "Error: The field 'password' is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(Options{})
			h.auth.loginErr = tt.err

			out := h.ctrl.SubmitLogin(context.Background(), models.Credentials{Username: "alice", Password: "secret"})
			if out.Message != tt.want {
				t.Fatalf("Message = %q, want %q", out.Message, tt.want)
			}
			if out.Success != (tt.err == nil) {
				t.Fatalf("unexpected success flag %v", out.Success)
			}
			if tt.err != nil && h.store.IsAuthenticated() {
				t.Fatal("failed login must not authenticate")
			}
		})
	}
}

func TestSubmitRegisterKeepsSession(t *testing.T) {
	h := newHarness(Options{})

	out := h.ctrl.SubmitRegister(context.Background(), models.RegistrationRequest{Username: "bob", Email: "bob@example.com", Password: "pw"})
	if out.Message != MsgRegistered || !out.ResetForm {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if h.store.IsAuthenticated() {
		t.Fatal("register must not log in")
	}

	h.auth.registerErr = &client.RejectedError{Op: "register", Message: "Username or email already exists"}
	out = h.ctrl.SubmitRegister(context.Background(), models.RegistrationRequest{})
	if out.Message != "Error: Username or email already exists" || out.ResetForm {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestUploadWhileAnonymousRoutesToAuth(t *testing.T) {
	h := newHarness(Options{})

	if out := h.ctrl.OpenUpload(); !out.ShowAuth || out.Message != MsgLoginRequired {
		t.Fatalf("unexpected open outcome %+v", out)
	}

	out := h.ctrl.SubmitUpload(context.Background(), sampleUpload())
	if !out.ShowAuth || out.Message != MsgLoginRequired {
		t.Fatalf("unexpected submit outcome %+v", out)
	}
	if h.uploads.calls.Load() != 0 {
		t.Fatal("anonymous upload must not call the uploader")
	}
}

func TestUploadSuccessRefreshesOnce(t *testing.T) {
	h := newHarness(Options{})
	_ = h.store.SetAuthenticated(context.Background(), "tok", nil)

	out := h.ctrl.SubmitUpload(context.Background(), sampleUpload())
	if !out.Success || out.Message != MsgUploaded || !out.CloseUpload || !out.ResetForm {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := h.feed.refreshes.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	if got := h.details.invalidated.Load(); got != 1 {
		t.Fatalf("expected details cache invalidated, got %d", got)
	}
}

func TestUploadFailureDoesNotRefresh(t *testing.T) {
	h := newHarness(Options{})
	_ = h.store.SetAuthenticated(context.Background(), "tok", nil)
	h.uploads.err = &client.RejectedError{Op: "upload", Message: "Only video files are allowed"}

	out := h.ctrl.SubmitUpload(context.Background(), sampleUpload())
	if out.Message != "Error: Only video files are allowed" || out.CloseUpload {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if h.feed.refreshes.Load() != 0 {
		t.Fatal("failed upload must not refresh the feed")
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(Options{})
	_ = h.store.SetAuthenticated(context.Background(), "tok", nil)

	out := h.ctrl.Logout(context.Background())
	if out.Message != MsgLoggedOut {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if h.slot.Token() != "" || h.store.IsAuthenticated() {
		t.Fatal("logout must clear the durable token and the session")
	}
	if h.ctrl.Navigation().AuthLabel != "Login" {
		t.Fatalf("navigation not resynced: %+v", h.ctrl.Navigation())
	}
}

func TestWatch(t *testing.T) {
	h := newHarness(Options{})

	details, out := h.ctrl.Watch(context.Background(), 5)
	if !out.Success || details.ID != 5 {
		t.Fatalf("unexpected watch result %+v %+v", details, out)
	}

	_, out = h.ctrl.Watch(context.Background(), 404)
	if out.Message != "Error: Video not found" {
		t.Fatalf("unexpected outcome %+v", out)
	}

	_, out = h.ctrl.Watch(context.Background(), 0)
	if out.Message != MsgInvalidVideo {
		t.Fatalf("unexpected outcome %+v", out)
	}

	if got := h.ctrl.WatchURL(5); got != "/watch?id=5" {
		t.Fatalf("unexpected watch url %q", got)
	}
}

func TestDoubleSubmitGuard(t *testing.T) {
	h := newHarness(Options{GuardDoubleSubmit: true})
	_ = h.store.SetAuthenticated(context.Background(), "tok", nil)
	h.uploads.entered = make(chan struct{}, 1)
	h.uploads.release = make(chan struct{})

	var wg sync.WaitGroup
	var first Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = h.ctrl.SubmitUpload(context.Background(), sampleUpload())
	}()

	<-h.uploads.entered
	second := h.ctrl.SubmitUpload(context.Background(), sampleUpload())
	close(h.uploads.release)
	wg.Wait()

	if second.Message != MsgInFlight {
		t.Fatalf("expected duplicate rejected, got %+v", second)
	}
	if first.Message != MsgUploaded {
		t.Fatalf("expected first upload to succeed, got %+v", first)
	}
	if got := h.uploads.calls.Load(); got != 1 {
		t.Fatalf("expected one upload call, got %d", got)
	}
}

func TestDoubleSubmitAllowedWithoutGuard(t *testing.T) {
	h := newHarness(Options{})
	_ = h.store.SetAuthenticated(context.Background(), "tok", nil)
	h.uploads.entered = make(chan struct{}, 2)
	h.uploads.release = make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ctrl.SubmitUpload(context.Background(), sampleUpload())
		}()
	}
	<-h.uploads.entered
	<-h.uploads.entered
	close(h.uploads.release)
	wg.Wait()

	if got := h.uploads.calls.Load(); got != 2 {
		t.Fatalf("expected both uploads sent, got %d", got)
	}
}

// TestEndToEndAgainstMockServer drives the real clients against a mock
// service: login, then upload with the stored bearer token.
func TestEndToEndAgainstMockServer(t *testing.T) {
	var uploads, lists atomic.Int32
	var authHeader atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/login":
			_ = r.ParseForm()
			if r.PostForm.Get("username") == "alice" && r.PostForm.Get("password") == "secret" {
				_, _ = io.WriteString(w, `{"success":true,"token":"abc123","user":{"id":1,"name":"alice"}}`)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"message":"bad credentials"}`)
		case "/api/upload":
			uploads.Add(1)
			authHeader.Store(r.Header.Get("Authorization"))
			_, _ = io.Copy(io.Discard, r.Body)
			_, _ = io.WriteString(w, `{"success":true}`)
		case "/api/videos":
			lists.Add(1)
			_, _ = io.WriteString(w, `{"success":true,"videos":[{"id":1,"title":"new","description":"d","category":"c","views":0,"likes":0}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	slot := session.NewMemorySlot()
	store := session.NewStore(slot)
	renderer := render.NewRenderer()
	api := client.New(srv.URL, srv.Client())
	ctrl := NewController(Dependencies{
		Sessions: store,
		Auth:     client.NewAuthClient(api, store),
		Uploads:  client.NewUploadClient(api, store),
		Feed:     client.NewFeedClient(api, renderer, models.FeedQuery{}),
		Links:    api,
		Renderer: renderer,
	}, Options{})

	ctx := context.Background()

	out := ctrl.SubmitLogin(ctx, models.Credentials{Username: "alice", Password: "wrong"})
	if out.Message != "Error: bad credentials" || store.IsAuthenticated() {
		t.Fatalf("unexpected rejected login %+v", out)
	}

	out = ctrl.SubmitLogin(ctx, models.Credentials{Username: "alice", Password: "secret"})
	if out.Message != MsgLoggedIn {
		t.Fatalf("unexpected login outcome %+v", out)
	}
	if slot.Token() != "abc123" || !store.IsAuthenticated() {
		t.Fatalf("expected durable token abc123, got %q", slot.Token())
	}
	if ctrl.Navigation().AuthLabel != "Logout" {
		t.Fatalf("expected logout control, got %+v", ctrl.Navigation())
	}

	out = ctrl.SubmitUpload(ctx, sampleUpload())
	if out.Message != MsgUploaded {
		t.Fatalf("unexpected upload outcome %+v", out)
	}
	if uploads.Load() != 1 {
		t.Fatalf("expected one upload request, got %d", uploads.Load())
	}
	if got, _ := authHeader.Load().(string); got != "Bearer abc123" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if lists.Load() != 1 {
		t.Fatalf("expected exactly one feed refresh, got %d", lists.Load())
	}
	if !strings.Contains(string(renderer.Feed()), "new") {
		t.Fatalf("expected refreshed feed rendered, got %s", renderer.Feed())
	}
	if got := ctrl.WatchURL(1); got != srv.URL+"/watch?id=1" {
		t.Fatalf("unexpected watch url %q", got)
	}
}
