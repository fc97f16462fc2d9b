package godap

// Package godap is a client for DAP (OPeNDAP) servers: it fetches dataset
// descriptions and binary bodies, reconstructs a typed hierarchical dataset
// in memory, and composes server-side function calls lazily.
//
// - OpenURL / OpenDods / OpenFile build a *model.Dataset from a remote
//   endpoint or pre-downloaded artifacts
// - Functions / Call represent unevaluated server-side calls; the first
//   attribute or item access performs exactly one fetch per node and the
//   result is cached for the node's lifetime
// - Transport is an injected capability (transport.Fetcher); tests substitute
//   an in-process server instead of patching globals
//
// Design policy:
// - Keep only public APIs in the root package; put the wire coding and the
//   text grammars under internal/.
// - Place the dataset tree under model/, the JSON projection under codec/,
//   the endpoint catalog under catalog/, and the CLI under cmd/godap.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	ds, err := godap.OpenURL(ctx, "http://server/coads")
//	sst, err := ds.Get("SST")
//
//	fns := client.Functions()
//	m := fns.Call("mean", godap.VarRef("SST"), 0)
//	node, err := m.Get(ctx, "SST") // single fetch happens here
