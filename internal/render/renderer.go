package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/vidfriends/webclient/internal/models"
)

// WatchPath is the full-page watch route for a video.
func WatchPath(id int64) string {
	return "/watch?id=" + strconv.FormatInt(id, 10)
}

var feedTmpl = template.Must(template.New("feed").Funcs(template.FuncMap{
	"truncate":  Truncate,
	"watchPath": WatchPath,
}).Parse(feedTemplate))

// Renderer owns the feed region and the navigation state of the page.
// Every field is derived from the last feed and the last session it saw.
type Renderer struct {
	mu     sync.RWMutex
	feed   template.HTML
	videos []models.VideoSummary
	nav    Navigation
}

// NewRenderer returns a Renderer showing an empty feed and anonymous navigation.
func NewRenderer() *Renderer {
	r := &Renderer{nav: ProjectNavigation(false)}
	r.RenderFeed(nil)
	return r
}

// RenderFeed replaces the whole feed region with one card per video.
func (r *Renderer) RenderFeed(videos []models.VideoSummary) {
	html, err := FeedHTML(videos)
	if err != nil {
		// The template only formats known fields; an error here is a bug.
		panic(err)
	}

	copied := append([]models.VideoSummary(nil), videos...)

	r.mu.Lock()
	r.feed = html
	r.videos = copied
	r.mu.Unlock()
}

// SyncNavigation re-projects the navigation from sess. It is registered as a
// session listener so it runs after every session mutation.
func (r *Renderer) SyncNavigation(sess models.Session) {
	nav := ProjectNavigation(sess.Authenticated())
	r.mu.Lock()
	r.nav = nav
	r.mu.Unlock()
}

// Feed returns the rendered feed region.
func (r *Renderer) Feed() template.HTML {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.feed
}

// Videos returns the videos behind the current feed region.
func (r *Renderer) Videos() []models.VideoSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.VideoSummary(nil), r.videos...)
}

// Navigation returns the current navigation state.
func (r *Renderer) Navigation() Navigation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nav
}

// FeedHTML renders videos as feed cards. Titles, descriptions and
// categories are HTML-escaped.
func FeedHTML(videos []models.VideoSummary) (template.HTML, error) {
	var buf bytes.Buffer
	if err := feedTmpl.Execute(&buf, videos); err != nil {
		return "", fmt.Errorf("render feed: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// WriteFeedText writes videos as an aligned table for terminals.
func WriteFeedText(w io.Writer, videos []models.VideoSummary) error {
	if len(videos) == 0 {
		_, err := fmt.Fprintln(w, "No videos yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tVIEWS\tLIKES\tDESCRIPTION")
	for _, v := range videos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", v.ID, v.Title, v.Category, v.Views, v.Likes, Truncate(v.Description))
	}
	return tw.Flush()
}
