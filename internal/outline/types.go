// Package outline parses markdown documents into a heading hierarchy.
package outline

// HeadingNode is a markdown section: a heading, its body text, and the
// subsections nested under it. Children preserve document order.
type HeadingNode struct {
	Heading  string         `json:"heading"`
	Content  string         `json:"content,omitempty"`
	Children []*HeadingNode `json:"children,omitempty"`
}

// Outline is the parse result for one document. Title comes from the first
// level-1 heading; empty if the document has none. Sections are the top-level
// (level-2) nodes.
type Outline struct {
	Title    string         `json:"title,omitempty"`
	Sections []*HeadingNode `json:"sections"`
}

// Walk visits every section node depth-first in document order.
func (o *Outline) Walk(fn func(node *HeadingNode, depth int)) {
	var visit func(n *HeadingNode, depth int)
	visit = func(n *HeadingNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, s := range o.Sections {
		visit(s, 0)
	}
}

// SectionCount returns the total number of nodes in the outline.
func (o *Outline) SectionCount() int {
	count := 0
	o.Walk(func(*HeadingNode, int) { count++ })
	return count
}
