// Package pkg provides the core libraries for shadergraph, a compiler from
// node-based shader graphs to GLSL fragment shaders.
//
// # Overview
//
// A shader graph is a set of nodes whose typed sockets are wired together.
// Exactly one node, the output, is the sink; compiling walks the graph
// backwards from it and emits one GLSL statement per reachable node. The pkg
// directory is organized into four areas:
//
//  1. Domain model: [glsl], [graph] and [nodes]
//  2. Compilation: [compiler] and [engine]
//  3. Documents and rendering: [io] and [render/nodelink]
//  4. Infrastructure: [pipeline], [cache], [observability] and [errors]
//
// # Architecture
//
// The typical data flow:
//
//	TOML/JSON document
//	         ↓
//	    [io] package (parse, validate, replay onto an engine)
//	         ↓
//	    [engine] package (mutations, recompile on every change)
//	         ↓
//	    [compiler] package (topological walk from the sink)
//	         ↓
//	    GLSL source, or a Graphviz diagram via [render/nodelink]
//
// # Quick Start
//
// Build a graph by hand and print its shader:
//
//	e := engine.New()
//	uv, _ := e.CreateNode("coordinates")
//	split, _ := e.CreateNode("separate_xy")
//	_ = e.CreateConnection(uv.Outputs[0].ID, split.Inputs[0].ID)
//	var sink *graph.Node
//	e.View(func(g *graph.Graph) { sink, _ = g.Node(e.SinkID()) })
//	_ = e.CreateConnection(split.Outputs[0].ID, sink.Inputs[0].ID)
//	fmt.Println(e.Source())
//
// Or load a document and run it through the cached pipeline:
//
//	doc, _ := io.Load("examples/rainbow.toml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, _ := runner.Compile(ctx, pipeline.Options{Document: doc})
//	fmt.Println(res.Source)
//
// # Main Packages
//
// [glsl] - Value types (float, vector2, vector3, color, bool), literals and
// the implicit conversions allowed between them.
//
// [graph] - Nodes, sockets, connections and parameters. Sockets hold a
// literal until they are connected to a producer.
//
// [nodes] - The built-in node catalog and the [nodes.Registry] used to look
// kinds up by name.
//
// [compiler] - Cycle detection, ordering and GLSL emission. Shared helper
// functions are emitted once no matter how many nodes need them.
//
// [engine] - Thread-safe editing surface. Every mutation recompiles and is
// rolled back when the result no longer compiles.
//
// [io] - Declarative graph documents in TOML or JSON.
//
// [render/nodelink] - Graphviz DOT and SVG diagrams of a graph.
//
// [pipeline] - Document to shader or diagram, with caching. Shared by the
// CLI and the HTTP server.
//
// [cache] - File, Redis and no-op caches plus key derivation.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/compiler/...  # Specific package
//	go test -run Example        # Examples only
//
// [glsl]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/glsl
// [graph]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/graph
// [nodes]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/nodes
// [nodes.Registry]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/nodes#Registry
// [compiler]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/compiler
// [engine]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/engine
// [io]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/shadergraph/pkg/errors
package pkg
