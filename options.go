package godap

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marram/godap/transport"
)

// Option configures a Client or a one-shot Open call.
type Option func(*options)

type options struct {
	fetcher    transport.Fetcher
	httpClient *http.Client
	log        logrus.FieldLogger
	userAgent  string
	timeout    time.Duration
	metadata   bool
}

// WithFetcher injects a transport, replacing the default HTTP fetcher. Test
// doubles go in through here.
func WithFetcher(f transport.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithHTTPClient sets the *http.Client backing the default fetcher. Ignored
// when WithFetcher is also given.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithTimeout bounds each fetch performed by the default HTTP fetcher.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMetadata makes OpenDods also fetch and merge the attribute description.
func WithMetadata(enabled bool) Option {
	return func(o *options) { o.metadata = enabled }
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
