package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/vidfriends/webclient/internal/logging"
)

// SameOrigin rejects state-changing requests sent from another site. The
// portal acts with the user's bearer token, so a form post is only honoured
// when its Origin (or, failing that, Referer) names the portal's own host.
// Requests carrying neither header come from non-browser clients and pass.
func SameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if safeMethod(r.Method) || sameOrigin(r) {
			next.ServeHTTP(w, r)
			return
		}
		logging.FromContext(r.Context()).Warn("cross-origin submission rejected",
			"origin", r.Header.Get("Origin"),
			"referer", r.Header.Get("Referer"),
		)
		http.Error(w, "Cross-origin request rejected", http.StatusForbidden)
	})
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func sameOrigin(r *http.Request) bool {
	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
	}
	if source == "" {
		site := r.Header.Get("Sec-Fetch-Site")
		return site == "" || site == "same-origin" || site == "none"
	}

	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
