package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vidfriends/webclient/internal/models"
)

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("a", DescriptionLimit)
	long := strings.Repeat("b", DescriptionLimit+20)
	wide := strings.Repeat("é", DescriptionLimit+1)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "short", in: "hello", want: "hello"},
		{name: "exactly at limit", in: exact, want: exact},
		{name: "over limit", in: long, want: strings.Repeat("b", DescriptionLimit) + Ellipsis},
		{name: "multibyte", in: wide, want: strings.Repeat("é", DescriptionLimit) + Ellipsis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in); got != tt.want {
				t.Fatalf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProjectNavigation(t *testing.T) {
	anon := ProjectNavigation(false)
	if anon.AuthLabel != "Login" || anon.AuthAction != ActionShowAuth || anon.UploadVisible {
		t.Fatalf("unexpected anonymous navigation %+v", anon)
	}
	auth := ProjectNavigation(true)
	if auth.AuthLabel != "Logout" || auth.AuthAction != ActionLogout || !auth.UploadVisible {
		t.Fatalf("unexpected authenticated navigation %+v", auth)
	}
}

func TestSyncNavigationFollowsSession(t *testing.T) {
	r := NewRenderer()
	if r.Navigation() != ProjectNavigation(false) {
		t.Fatalf("expected anonymous navigation initially, got %+v", r.Navigation())
	}

	r.SyncNavigation(models.Session{Token: "abc123", User: &models.UserSummary{}})
	if r.Navigation() != ProjectNavigation(true) {
		t.Fatalf("expected authenticated navigation, got %+v", r.Navigation())
	}

	r.SyncNavigation(models.Session{})
	if r.Navigation() != ProjectNavigation(false) {
		t.Fatalf("expected anonymous navigation after logout, got %+v", r.Navigation())
	}
}

func TestRenderFeedEscapesMarkup(t *testing.T) {
	r := NewRenderer()
	hostile := `<script>alert("x")</script> & <b>bold</b>`
	r.RenderFeed([]models.VideoSummary{{
		ID:          9,
		Title:       hostile,
		Description: hostile,
		Category:    "<i>music</i>",
		Views:       12,
		Likes:       3,
	}})

	out := string(r.Feed())
	for _, raw := range []string{"<script>", "<b>", "<i>", " & "} {
		if strings.Contains(out, raw) {
			t.Fatalf("rendered feed contains raw %q:\n%s", raw, out)
		}
	}
	if !strings.Contains(out, "&lt;script&gt;") || !strings.Contains(out, "&amp;") {
		t.Fatalf("expected escaped markup in:\n%s", out)
	}
	if !strings.Contains(out, `href="/watch?id=9"`) {
		t.Fatalf("expected watch link in:\n%s", out)
	}
	if !strings.Contains(out, "12 views") || !strings.Contains(out, "3 likes") {
		t.Fatalf("expected counters in:\n%s", out)
	}
}

func TestRenderFeedReplacesRegion(t *testing.T) {
	r := NewRenderer()
	r.RenderFeed([]models.VideoSummary{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}})
	r.RenderFeed([]models.VideoSummary{{ID: 3, Title: "third"}})

	out := string(r.Feed())
	if strings.Contains(out, "first") || strings.Contains(out, "second") {
		t.Fatalf("previous cards must be replaced:\n%s", out)
	}
	if strings.Count(out, `class="video-card"`) != 1 {
		t.Fatalf("expected one card:\n%s", out)
	}
	if len(r.Videos()) != 1 {
		t.Fatalf("expected one video, got %d", len(r.Videos()))
	}

	r.RenderFeed([]models.VideoSummary{})
	if !strings.Contains(string(r.Feed()), "No videos yet.") {
		t.Fatalf("expected empty placeholder:\n%s", r.Feed())
	}
}

func TestRenderFeedTruncatesDescription(t *testing.T) {
	desc := strings.Repeat("x", DescriptionLimit+5)
	html, err := FeedHTML([]models.VideoSummary{{ID: 1, Description: desc}})
	if err != nil {
		t.Fatalf("FeedHTML: %v", err)
	}
	want := strings.Repeat("x", DescriptionLimit) + Ellipsis
	if !strings.Contains(string(html), ">"+want+"<") {
		t.Fatalf("expected truncated description in:\n%s", html)
	}
}

func TestWriteFeedText(t *testing.T) {
	var buf bytes.Buffer
	videos := []models.VideoSummary{{ID: 4, Title: "Cats", Category: "pets", Views: 10, Likes: 2, Description: "purr"}}
	if err := WriteFeedText(&buf, videos); err != nil {
		t.Fatalf("WriteFeedText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cats") || !strings.Contains(out, "pets") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	buf.Reset()
	_ = WriteFeedText(&buf, nil)
	if strings.TrimSpace(buf.String()) != "No videos yet." {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
