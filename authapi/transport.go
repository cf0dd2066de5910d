package authapi

import (
	"errors"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// ErrNoSession is returned for requests made while no bearer token is available.
var ErrNoSession = errors.New("no active session")

var defaultTransport = cleanhttp.DefaultPooledTransport()

// TokenSource yields the current bearer token. The console implements it.
type TokenSource interface {
	Token() (string, bool)
}

// BearerTransport adds "Authorization: Bearer <token>" to every request.
type BearerTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

// RoundTrip implements [http.RoundTripper]. The request is cloned before the header is
// set; callers keep ownership of the original.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var token string
	ok := false
	if t.Source != nil {
		token, ok = t.Source.Token()
	}
	if !ok || token == "" {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, ErrNoSession
	}

	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+token)

	base := t.Base
	if base == nil {
		base = defaultTransport
	}
	return base.RoundTrip(out)
}

// NewAuthorizedClient returns an http.Client whose requests carry src's token.
func NewAuthorizedClient(src TokenSource) *http.Client {
	return &http.Client{
		Transport: &BearerTransport{
			Base:   cleanhttp.DefaultPooledTransport(),
			Source: src,
		},
	}
}
