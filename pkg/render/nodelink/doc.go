// Package nodelink renders shader graphs as node-link diagrams.
//
// Each node becomes a rounded box labelled with its display label and kind,
// filled by class. Edges run from producer to consumer and are labelled with
// the socket pair they join, so a diagram reads in data-flow order from the
// inputs down to the output node.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// With Detailed set, node labels also list parameter values and the
// literals of unconnected inputs.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
