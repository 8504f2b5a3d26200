package http

import "net/http"

type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.value != "" {
		reqCopy.Header.Set(t.header, t.value)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken authenticates requests with a standard Bearer token.
func WithAuthToken(token string) HttpOpts {
	value := ""
	if token != "" {
		value = "Bearer " + token
	}
	return WithAuthHeader("Authorization", value)
}

// WithAuthHeader authenticates requests through a provider-specific header,
// e.g. x-goog-api-key for the Google Generative Language API.
func WithAuthHeader(header, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
