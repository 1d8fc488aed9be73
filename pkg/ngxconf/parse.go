package ngxconf

// Parse consumes a token sequence into an ordered statement list in a single
// left-to-right pass.
//
// Parsing is best-effort and never fails: stray terminators are skipped, a
// dangling directive before a closing brace is still emitted, an unmatched '}'
// closes an already-finished level, and end-of-input mid-block yields whatever
// was collected so far. Brace balance is not validated.
func Parse(tokens []Token) []Node {
	var nodes []Node
	pos := 0
	for pos < len(tokens) {
		level, next := parseLevel(tokens, pos)
		nodes = append(nodes, level...)
		pos = next
	}
	return nodes
}

// parseLevel parses sibling statements starting at pos and returns them along
// with the position just past the '}' that closed the level (or past the last
// token at end of input).
func parseLevel(tokens []Token, pos int) ([]Node, int) {
	var nodes []Node
	var group []string

	for pos < len(tokens) {
		tok := tokens[pos]
		if tok.Quoted || !isTerminator(tok.Text) {
			group = append(group, tok.Text)
			pos++
			continue
		}
		switch tok.Text {
		case ";":
			pos++
			if len(group) > 0 {
				nodes = append(nodes, &Directive{Name: group[0], Args: group[1:]})
				group = nil
			}
		case "{":
			pos++
			children, next := parseLevel(tokens, pos)
			pos = next
			if len(group) > 0 {
				nodes = append(nodes, &Block{Name: group[0], Args: group[1:], Children: children})
				group = nil
			}
		case "}":
			// A dangling group right before '}' still becomes a directive.
			if len(group) > 0 {
				nodes = append(nodes, &Directive{Name: group[0], Args: group[1:]})
			}
			return nodes, pos + 1
		}
	}
	if len(group) > 0 {
		nodes = append(nodes, &Directive{Name: group[0], Args: group[1:]})
	}
	return nodes, pos
}

func isTerminator(text string) bool {
	return text == ";" || text == "{" || text == "}"
}
