package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/session"
)

// UploadClient performs the authenticated upload transaction.
type UploadClient struct {
	api      *Client
	sessions *session.Store
}

// NewUploadClient wires an UploadClient to the session providing its token.
func NewUploadClient(api *Client, sessions *session.Store) *UploadClient {
	if api == nil || sessions == nil {
		panic("client: upload client requires an API client and a session store")
	}
	return &UploadClient{api: api, sessions: sessions}
}

// Upload streams req as one multipart request authorized with the session's
// bearer token. Without a session it returns ErrNotAuthenticated and sends
// nothing; callers are expected to check first and route to login instead.
func (u *UploadClient) Upload(ctx context.Context, req models.UploadRequest) error {
	token := u.sessions.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	if err := validateInput(req); err != nil {
		return err
	}

	ctx, span := logging.StartSpan(ctx, "upload", slog.String("title", req.Title), slog.String("file", req.File.Name))
	defer span.End()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		_ = pw.CloseWithError(writeUploadForm(form, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.api.endpoint(pathUpload), pr)
	if err != nil {
		_ = pr.Close()
		span.Fail(err)
		return fmt.Errorf("build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+token)

	err = u.api.send(ctx, "upload", httpReq, nil)
	logOutcome(ctx, "upload", err)
	if err != nil {
		span.Fail(err)
	}
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// videoTypes covers containers missing from minimal system MIME tables.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := videoTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func writeUploadForm(form *multipart.Writer, req models.UploadRequest) error {
	fields := []struct{ name, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"category", req.Category},
		{"tags", req.Tags},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write %s field: %w", f.name, err)
		}
	}

	name := filepath.Base(req.File.Name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "video"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentTypeFor(name))

	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create video part: %w", err)
	}
	if _, err := io.Copy(part, req.File.Content); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}
	return form.Close()
}
