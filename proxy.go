package godap

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/marram/godap/model"
)

// Functions is the namespace of server-side functions reachable through one
// client. Calls build expression nodes; nothing touches the network until a
// value is actually requested.
type Functions struct {
	c *Client
}

// VarRef names a dataset variable by dotted path inside a constraint
// expression.
type VarRef string

// Call returns an unevaluated function-call node. Arguments may be other
// *Call nodes (nested calls), *model.Node references, VarRef paths, strings,
// integers, or floats.
func (f *Functions) Call(name string, args ...any) *Call {
	return &Call{c: f.c, name: name, args: args}
}

type resolveState int

const (
	stateUnevaluated resolveState = iota
	stateResolved
	stateFailed
)

// Call is a lazy node: either freshly composed or resolved exactly once. The
// first access serializes the node into a constraint expression, performs one
// fetch, decodes the result, and caches it; later accesses (from any
// goroutine) reuse the cache. A failed resolution is final: the stored error
// is returned on every subsequent access, never retried.
type Call struct {
	c    *Client
	name string
	args []any

	mu    sync.Mutex
	state resolveState
	ds    *model.Dataset
	err   error
}

// Resolved reports whether the node has been evaluated (successfully or not).
func (cl *Call) Resolved() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.state != stateUnevaluated
}

// Dataset returns the node's result, resolving it on first use.
func (cl *Call) Dataset(ctx context.Context) (*model.Dataset, error) {
	return cl.resolve(ctx)
}

// Get resolves the node if needed and looks up a dotted path in the result.
func (cl *Call) Get(ctx context.Context, path string) (*model.Node, error) {
	ds, err := cl.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Get(path)
}

// Expr serializes the call into its constraint expression without fetching
// this node. Arguments on a different server are resolved (once, on their
// own server) so their scalar result can be inlined.
func (cl *Call) Expr(ctx context.Context) (string, error) {
	return cl.expr(ctx, cl.c)
}

// resolve implements the node's state machine. The mutex serializes
// concurrent first accesses: the loser blocks until the winner's result is
// cached, guaranteeing one fetch per node.
func (cl *Call) resolve(ctx context.Context) (*model.Dataset, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	switch cl.state {
	case stateResolved:
		return cl.ds, nil
	case stateFailed:
		return nil, cl.err
	}
	ds, err := cl.evaluate(ctx)
	if err != nil {
		cl.state = stateFailed
		cl.err = err
		return nil, err
	}
	cl.state = stateResolved
	cl.ds = ds
	return ds, nil
}

func (cl *Call) evaluate(ctx context.Context) (*model.Dataset, error) {
	expr, err := cl.exprLocked(ctx, cl.c)
	if err != nil {
		return nil, err
	}
	return cl.c.OpenData(ctx, expr, false)
}

func (cl *Call) expr(ctx context.Context, owner *Client) (string, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.exprLocked(ctx, owner)
}

// exprLocked serializes the call as name(arg, ...). A nested call on the same
// server collapses into the expression text, so an arbitrarily deep chain
// costs one request; composition never forces the inner node to resolve.
func (cl *Call) exprLocked(ctx context.Context, owner *Client) (string, error) {
	parts := make([]string, len(cl.args))
	for i, arg := range cl.args {
		s, err := serializeArg(ctx, owner, arg)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return cl.name + "(" + strings.Join(parts, ",") + ")", nil
}

func serializeArg(ctx context.Context, owner *Client, arg any) (string, error) {
	switch a := arg.(type) {
	case *Call:
		if a.c == owner {
			return a.expr(ctx, owner)
		}
		return a.inlineResult(ctx)
	case *model.Node:
		return a.Path(), nil
	case VarRef:
		return string(a), nil
	case string:
		return strconv.Quote(a), nil
	case int:
		return strconv.Itoa(a), nil
	case int16:
		return strconv.FormatInt(int64(a), 10), nil
	case int32:
		return strconv.FormatInt(int64(a), 10), nil
	case int64:
		return strconv.FormatInt(a, 10), nil
	case uint16:
		return strconv.FormatUint(uint64(a), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(a), 10), nil
	case float32:
		return strconv.FormatFloat(float64(a), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(a, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("dap: cannot serialize %T into a constraint expression", arg)
	}
}

// inlineResult resolves a call owned by a different server and inlines its
// result as a literal. Only a single scalar can cross servers this way; the
// fetch count stays one per distinct server touched.
func (cl *Call) inlineResult(ctx context.Context) (string, error) {
	ds, err := cl.resolve(ctx)
	if err != nil {
		return "", err
	}
	var leaf *model.Node
	ds.Walk(func(n *model.Node) bool {
		if n.Kind == model.KindVar && len(n.Shape) == 0 {
			leaf = n
			return false
		}
		return true
	})
	if leaf == nil {
		return "", fmt.Errorf("dap: cannot inline non-scalar result of %s() from %s", cl.name, cl.c.Base())
	}
	return serializeScalar(leaf.Data())
}

func serializeScalar(v any) (string, error) {
	switch x := v.(type) {
	case byte:
		return strconv.FormatUint(uint64(x), 10), nil
	case string:
		return strconv.Quote(x), nil
	default:
		return serializeArg(context.Background(), nil, v)
	}
}
