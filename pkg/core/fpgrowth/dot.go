package fpgrowth

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures ToDOT.
type DOTOptions struct {
	// Siblings draws the header sibling chains as dashed edges.
	Siblings bool

	// MaxNodes stops the output after this many item nodes. Zero means all.
	MaxNodes int
}

// ToDOT returns a Graphviz DOT representation of the tree.
//
// Each item node is labeled "name: count" with its depth-0 count. The root is
// drawn as a point. Children are emitted in rank order, so the output is
// deterministic for a given tree.
//
// Example:
//
//	tree := fpgrowth.BuildTree(ds, 2)
//	dot := tree.ToDOT(fpgrowth.DOTOptions{Siblings: true})
//	svg, err := fpgrowth.RenderSVG(ctx, dot)
func (t *Tree) ToDOT(opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph FPTree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, shape=box, style=\"filled,rounded\", fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")
	buf.WriteString("  n0 [label=\"\", shape=point, width=0.15];\n")

	emitted := map[NodeID]bool{RootID: true}
	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, c := range t.Children(id) {
			if opts.MaxNodes > 0 && len(emitted) > opts.MaxNodes {
				return
			}
			emitted[c] = true
			r := t.nodes[c].rank
			fmt.Fprintf(&buf, "  n%d [label=%q];\n", c, fmt.Sprintf("%s: %d", t.items.Name(r), t.Count(c)))
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, c)
			walk(c)
		}
	}
	walk(RootID)

	if opts.Siblings {
		buf.WriteString("\n")
		for _, r := range t.headers.order {
			chain := t.Chain(r)
			for i := 1; i < len(chain); i++ {
				if emitted[chain[i-1]] && emitted[chain[i]] {
					fmt.Fprintf(&buf, "  n%d -> n%d [style=dashed, color=gray, constraint=false, arrowhead=normal];\n", chain[i-1], chain[i])
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz. It fails when dot does
// not parse or Graphviz cannot lay it out.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
