package godap_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/marram/godap"
	"github.com/marram/godap/daptest"
)

func newGridClient(t *testing.T) (*daptest.Server, *godap.Client) {
	t.Helper()
	srv, ref := newServer(t, daptest.SimpleGrid())
	c, err := godap.New(ref)
	if err != nil {
		t.Fatal(err)
	}
	return srv, c
}

func TestCallIsLazy(t *testing.T) {
	srv, c := newGridClient(t)
	call := c.Functions().Call("mean", godap.VarRef("SimpleGrid"), 0)
	if call.Resolved() {
		t.Fatal("call resolved before first access")
	}
	if got := srv.Requests(); got != 0 {
		t.Fatalf("requests before access = %d", got)
	}
}

func TestCallResolvesOnce(t *testing.T) {
	srv, c := newGridClient(t)
	ctx := context.Background()
	call := c.Functions().Call("mean", godap.VarRef("SimpleGrid"), 0)

	n, err := call.Get(ctx, "SimpleGrid.SimpleGrid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(n.Data(), []float64{1.5, 2.5, 3.5}) {
		t.Fatalf("mean axis 0 = %v", n.Data())
	}
	if !call.Resolved() {
		t.Fatal("call not marked resolved")
	}

	// Further accesses hit the cache, not the server.
	for i := 0; i < 3; i++ {
		if _, err := call.Dataset(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := srv.Requests(); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}
}

func TestNestedCallsCollapseIntoOneRequest(t *testing.T) {
	srv, c := newGridClient(t)
	ctx := context.Background()
	f := c.Functions()

	inner := f.Call("mean", godap.VarRef("SimpleGrid"), 0)
	outer := f.Call("mean", inner, 0)

	expr, err := outer.Expr(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "mean(mean(SimpleGrid,0),0)" {
		t.Fatalf("expr = %q", expr)
	}

	n, err := outer.Get(ctx, "SimpleGrid.SimpleGrid")
	if err != nil {
		t.Fatal(err)
	}
	if n.Data() != float64(2.5) {
		t.Fatalf("nested mean = %v", n.Data())
	}
	// Composition never resolves the inner node.
	if inner.Resolved() {
		t.Fatal("inner call resolved by composition")
	}
	if got := srv.Requests(); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}
}

func TestCallOnMapVariable(t *testing.T) {
	_, c := newGridClient(t)
	call := c.Functions().Call("mean", godap.VarRef("SimpleGrid.x"))
	ds, err := call.Dataset(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	n, err := ds.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if n.Data() != float64(1) {
		t.Fatalf("mean(x) = %v", n.Data())
	}
}

func TestCallAxisOne(t *testing.T) {
	_, c := newGridClient(t)
	call := c.Functions().Call("mean", godap.VarRef("SimpleGrid"), 1)
	n, err := call.Get(context.Background(), "SimpleGrid.SimpleGrid")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(n.Data(), []float64{1, 4}) {
		t.Fatalf("mean axis 1 = %v", n.Data())
	}
}

func TestConcurrentFirstAccessFetchesOnce(t *testing.T) {
	srv, c := newGridClient(t)
	call := c.Functions().Call("mean", godap.VarRef("SimpleGrid"), 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := call.Dataset(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got := srv.Requests(); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}
}

func TestFailedResolutionIsSticky(t *testing.T) {
	srv, c := newGridClient(t)
	ctx := context.Background()
	call := c.Functions().Call("variance", godap.VarRef("SimpleGrid"))

	_, err1 := call.Dataset(ctx)
	if err1 == nil {
		t.Fatal("unknown function must fail")
	}
	var te *godap.TransportError
	if !errors.As(err1, &te) || te.Code != godap.CodeHTTPStatus {
		t.Fatalf("err = %v", err1)
	}
	if !call.Resolved() {
		t.Fatal("failed call not marked resolved")
	}

	_, err2 := call.Dataset(ctx)
	if err2 != err1 {
		t.Fatalf("second error differs: %v vs %v", err2, err1)
	}
	if got := srv.Requests(); got != 1 {
		t.Fatalf("requests = %d, want 1 (no retry)", got)
	}
}

func TestCrossServerArgumentInlinesScalar(t *testing.T) {
	srvA, refA := newServer(t, daptest.SimpleGrid())
	srvB, refB := newServer(t, daptest.SimpleGrid())
	cA, err := godap.New(refA)
	if err != nil {
		t.Fatal(err)
	}
	cB, err := godap.New(refB)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	inner := cB.Functions().Call("mean", godap.VarRef("SimpleGrid.x"))
	outer := cA.Functions().Call("scale", godap.VarRef("SimpleGrid"), inner)

	expr, err := outer.Expr(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if expr != `scale(SimpleGrid,1)` {
		t.Fatalf("expr = %q", expr)
	}
	// The foreign argument resolved on its own server, exactly once.
	if !inner.Resolved() {
		t.Fatal("foreign argument not resolved")
	}
	if got := srvB.Requests(); got != 1 {
		t.Fatalf("foreign server requests = %d, want 1", got)
	}
	if got := srvA.Requests(); got != 0 {
		t.Fatalf("owner server requests = %d, want 0 (Expr never fetches the node itself)", got)
	}
}

func TestLiteralArguments(t *testing.T) {
	_, c := newGridClient(t)
	call := c.Functions().Call("bind", "a label", 3, 2.5, godap.VarRef("SimpleGrid.y"))
	expr, err := call.Expr(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if expr != `bind("a label",3,2.5,SimpleGrid.y)` {
		t.Fatalf("expr = %q", expr)
	}
}

func TestNodeArgumentSerializesAsPath(t *testing.T) {
	_, c := newGridClient(t)
	ctx := context.Background()
	ds, err := godap.OpenURL(ctx, c.Base())
	if err != nil {
		t.Fatal(err)
	}
	x, err := ds.Get("SimpleGrid.x")
	if err != nil {
		t.Fatal(err)
	}
	expr, err := c.Functions().Call("mean", x).Expr(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "mean(SimpleGrid.x)" {
		t.Fatalf("expr = %q", expr)
	}
}
