package godap

import (
	"context"
	"os"
	"strings"

	"github.com/marram/godap/internal/das"
	"github.com/marram/godap/model"
)

// OpenURL opens a remote dataset by reference: it fetches the descriptor and
// attribute endpoints and returns the merged tree without transferring data.
func OpenURL(ctx context.Context, ref string, opts ...Option) (*model.Dataset, error) {
	c, err := New(ref, opts...)
	if err != nil {
		return nil, err
	}
	return c.Open(ctx)
}

// OpenDods fetches a data endpoint directly. The reference may carry the
// ".dods" extension and a constraint expression in its query; both are
// honored. WithMetadata(true) additionally fetches and merges the attribute
// description.
func OpenDods(ctx context.Context, ref string, opts ...Option) (*model.Dataset, error) {
	o := buildOptions(opts)
	base := ref
	constraint := ""
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base, constraint = base[:i], base[i+1:]
	}
	base = strings.TrimSuffix(base, ".dods")
	c, err := New(base, opts...)
	if err != nil {
		return nil, err
	}
	return c.OpenData(ctx, constraint, o.metadata)
}

// OpenFile builds a dataset from pre-downloaded artifacts: a data response on
// disk and, optionally, an attribute description. An empty dasPath skips the
// attribute merge.
func OpenFile(dodsPath, dasPath string) (*model.Dataset, error) {
	body, err := os.ReadFile(dodsPath)
	if err != nil {
		return nil, &TransportError{Code: CodeReadBody, URL: dodsPath, Cause: err}
	}
	ds, err := DecodeData(body)
	if err != nil {
		return nil, err
	}
	if dasPath != "" {
		text, err := os.ReadFile(dasPath)
		if err != nil {
			return nil, &TransportError{Code: CodeReadBody, URL: dasPath, Cause: err}
		}
		table, err := das.Parse(string(text))
		if err != nil {
			return nil, err
		}
		ds.MergeAttributes(table)
	}
	return ds, nil
}
