package godap

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/marram/godap/internal/das"
	"github.com/marram/godap/internal/dds"
	"github.com/marram/godap/internal/xdr"
	"github.com/marram/godap/model"
	"github.com/marram/godap/transport"
)

// dataSeparator divides descriptor text from the binary body in a data
// response.
var dataSeparator = []byte("\nData:\n")

// Client issues requests against one dataset reference. The base reference
// is the dataset URL without an endpoint extension; the three protocol
// endpoints are derived by suffixing ".dds", ".das", or ".dods".
type Client struct {
	base    string
	fetcher transport.Fetcher
}

// New returns a client for the given base dataset reference.
func New(base string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ParseError{Code: CodeSyntax, Message: fmt.Sprintf("invalid dataset reference %q", base), Offset: -1, Cause: err}
	}
	return &Client{base: base, fetcher: o.buildFetcher()}, nil
}

func (o *options) buildFetcher() transport.Fetcher {
	if o.fetcher != nil {
		return o.fetcher
	}
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	if o.timeout > 0 {
		c := *hc
		c.Timeout = o.timeout
		hc = &c
	}
	f := transport.NewHTTPFetcher(hc)
	f.UserAgent = o.userAgent
	f.Log = o.log
	return f
}

// Base returns the client's base dataset reference.
func (c *Client) Base() string { return c.base }

// urlFor builds an endpoint URL: base + "." + ext, with the constraint
// expression query-encoded as the suffix.
func (c *Client) urlFor(ext, constraint string) string {
	u := c.base + "." + ext
	if constraint != "" {
		u += "?" + escapeConstraint(constraint)
	}
	return u
}

// escapeConstraint percent-encodes the few constraint-expression characters
// that are not legal in a URL query. Parentheses and commas stay readable;
// servers decode the rest.
var constraintEscaper = strings.NewReplacer(
	"%", "%25",
	" ", "%20",
	`"`, "%22",
	"#", "%23",
	"<", "%3C",
	">", "%3E",
)

func escapeConstraint(ce string) string { return constraintEscaper.Replace(ce) }

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Open fetches the descriptor and attribute endpoints and returns the merged
// skeleton dataset. No data body is transferred.
func (c *Client) Open(ctx context.Context) (*model.Dataset, error) {
	body, err := c.fetch(ctx, c.urlFor("dds", ""))
	if err != nil {
		return nil, err
	}
	ds, err := dds.Parse(string(body))
	if err != nil {
		return nil, err
	}
	table, err := c.Attributes(ctx)
	if err != nil {
		return nil, err
	}
	ds.MergeAttributes(table)
	return ds, nil
}

// Attributes fetches and parses the attributes-only endpoint.
func (c *Client) Attributes(ctx context.Context) (*model.AttributeTable, error) {
	body, err := c.fetch(ctx, c.urlFor("das", ""))
	if err != nil {
		return nil, err
	}
	return das.Parse(string(body))
}

// OpenData fetches the data endpoint, optionally constrained, and decodes the
// response into a populated dataset. When withMetadata is set the attribute
// endpoint is fetched as well and merged in.
func (c *Client) OpenData(ctx context.Context, constraint string, withMetadata bool) (*model.Dataset, error) {
	body, err := c.fetch(ctx, c.urlFor("dods", constraint))
	if err != nil {
		return nil, err
	}
	ds, err := DecodeData(body)
	if err != nil {
		return nil, err
	}
	if withMetadata {
		table, err := c.Attributes(ctx)
		if err != nil {
			return nil, err
		}
		ds.MergeAttributes(table)
	}
	return ds, nil
}

// Functions returns the server-side function namespace for this client.
func (c *Client) Functions() *Functions { return &Functions{c: c} }

// DecodeData decodes a raw data response: descriptor text, a "Data:" line,
// then the binary body.
func DecodeData(body []byte) (*model.Dataset, error) {
	i := bytes.Index(body, dataSeparator)
	if i < 0 {
		return nil, &ParseError{
			Code:    CodeSyntax,
			Message: "data response has no Data separator",
			Offset:  -1,
		}
	}
	ds, err := dds.Parse(string(body[:i+1]))
	if err != nil {
		return nil, err
	}
	if err := xdr.Decode(bytes.NewReader(body[i+len(dataSeparator):]), ds); err != nil {
		return nil, err
	}
	return ds, nil
}
