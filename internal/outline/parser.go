package outline

import "strings"

// Parse converts markdown text into an Outline.
//
// The parser is line-oriented and never fails: malformed input degrades to a
// best-effort tree. Headings are lines whose leading '#' run (1-6) is followed
// by a space. Lines inside fenced code blocks are always content, including
// lines that look like headings. The hierarchy is rebuilt with an explicit
// stack of (level, node) pairs rather than recursion.
func Parse(text string) *Outline {
	p := &parser{outline: &Outline{}}
	for _, raw := range strings.Split(text, "\n") {
		p.line(strings.TrimSpace(raw))
	}
	// Drain everything still open so the last top-level section lands.
	p.drain(2)
	if p.outline.Sections == nil {
		p.outline.Sections = []*HeadingNode{}
	}
	return p.outline
}

type stackEntry struct {
	level int
	node  *HeadingNode
}

type parser struct {
	outline  *Outline
	stack    []stackEntry
	titleSet bool
	inFence  bool
}

func (p *parser) line(trimmed string) {
	if isFenceMarker(trimmed) {
		p.inFence = !p.inFence
		// The marker line itself stays in the section body.
		p.appendContent(trimmed)
		return
	}
	if p.inFence {
		p.appendContent(trimmed)
		return
	}

	level, heading, ok := headingLine(trimmed)
	if !ok {
		p.appendContent(trimmed)
		return
	}

	switch {
	case level == 1:
		if !p.titleSet {
			p.titleSet = true
			p.outline.Title = heading
			return
		}
		// Any H1 after the first is ordinary content text.
		p.appendContent(trimmed)
	case level == 2:
		p.drain(2)
		p.push(2, heading)
	default:
		p.drain(level)
		if len(p.stack) == 0 {
			// A subheading before any open section has nothing to
			// attach to and is dropped.
			return
		}
		p.push(level, heading)
	}
}

// drain pops every node at or below the incoming level, attaching each to its
// parent (the new stack top) or, when the stack empties, to the root sections.
func (p *parser) drain(level int) {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].level >= level {
		popped := p.stack[len(p.stack)-1].node
		p.stack = p.stack[:len(p.stack)-1]
		if len(p.stack) == 0 {
			p.outline.Sections = append(p.outline.Sections, popped)
		} else {
			parent := p.stack[len(p.stack)-1].node
			parent.Children = append(parent.Children, popped)
		}
	}
}

func (p *parser) push(level int, heading string) {
	p.stack = append(p.stack, stackEntry{level: level, node: &HeadingNode{Heading: heading}})
}

func (p *parser) appendContent(line string) {
	if line == "" || len(p.stack) == 0 {
		return
	}
	node := p.stack[len(p.stack)-1].node
	if node.Content == "" {
		node.Content = line
	} else {
		node.Content += "\n\n" + line
	}
}

func isFenceMarker(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// headingLine reports the heading level and text of a line, or ok=false for
// content lines: no '#' prefix, a '#' run not followed by a space, or a run
// deeper than six.
func headingLine(line string) (level int, heading string, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}
