package installer

import (
	"net/http"

	"golang.org/x/oauth2"
)

// scopedTransport authenticates only requests to the release source hosts, so a redirect
// to a storage host never carries the token.
type scopedTransport struct {
	hosts map[string]struct{}
	auth  http.RoundTripper
	base  http.RoundTripper
}

func newScopedTransport(token string, hosts []string, base http.RoundTripper) http.RoundTripper {
	if token == "" {
		return base
	}
	t := &scopedTransport{
		hosts: make(map[string]struct{}, len(hosts)),
		auth: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
		base: base,
	}
	for _, h := range hosts {
		t.hosts[h] = struct{}{}
	}
	return t
}

func (t *scopedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := t.hosts[req.URL.Host]; ok {
		return t.auth.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}
