package client

import (
	"net/http"
	"net/url"

	json "github.com/json-iterator/go"
)

// Response is a completed 2xx exchange.
type Response struct {
	Status int
	Data   []byte
	Header http.Header
}

// Decode unmarshals the response body into v. An empty body leaves v untouched.
func (r *Response) Decode(v interface{}) error {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// RequestOption customizes a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	hydration bool
	query     url.Values
	headers   http.Header
}

// WithHydration marks a session probe. Its auth failures are returned to the
// caller as-is and never start a refresh.
func WithHydration() RequestOption {
	return func(o *requestOptions) {
		o.hydration = true
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Add(key, value)
	}
}

// WithHeader sets a header for this call only.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Set(key, value)
	}
}

// call is one logical request. It is replayed with identical method, path,
// payload and options at most once after a refresh.
type call struct {
	method  string
	path    string
	payload []byte
	opts    requestOptions

	// retried is set before the refresh so a second 401 is not recovered again.
	retried bool
	// retryEnd is set when the refresh failed; the call is terminally failed.
	retryEnd bool
}

func newCall(method, path string, body interface{}, opts []RequestOption) (*call, error) {
	c := &call{method: method, path: path}
	for _, opt := range opts {
		opt(&c.opts)
	}

	switch b := body.(type) {
	case nil:
	case []byte:
		c.payload = b
	case string:
		c.payload = []byte(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		c.payload = data
	}
	return c, nil
}
