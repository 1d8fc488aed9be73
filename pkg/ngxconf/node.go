// Package ngxconf tokenizes and parses the nginx-style configuration dialect
// used by the preview server: directives terminated by ';' and named blocks
// delimited by '{' '}'.
//
// Both phases are deliberately lenient and never fail. A partially edited
// config yields a partial token sequence and a partial statement list, which
// downstream code treats as a normal case.
package ngxconf

// Node is one parsed statement. It is a closed union: every Node is either a
// *Directive or a *Block.
type Node interface {
	node()
}

// Directive is a simple statement terminated by ';', e.g. `listen 8080;`.
type Directive struct {
	Name string
	Args []string
}

// Block is a named statement with nested children, e.g. `server { ... }`.
type Block struct {
	Name     string
	Args     []string
	Children []Node
}

func (*Directive) node() {}
func (*Block) node()     {}

// Blocks returns the blocks among nodes with the given name, in order. It
// never descends into grandchildren and returns nil when nothing matches.
func Blocks(nodes []Node, name string) []*Block {
	var out []*Block
	for _, n := range nodes {
		if b, ok := n.(*Block); ok && b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// Directives returns the directives among nodes with the given name, in order.
func Directives(nodes []Node, name string) []*Directive {
	var out []*Directive
	for _, n := range nodes {
		if d, ok := n.(*Directive); ok && d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// FirstBlock returns the first block with the given name. Later duplicates are
// ignored; this first-match-wins policy matches nginx's handling of
// single-valued directives.
func FirstBlock(nodes []Node, name string) (*Block, bool) {
	for _, n := range nodes {
		if b, ok := n.(*Block); ok && b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// FirstDirective returns the first directive with the given name.
func FirstDirective(nodes []Node, name string) (*Directive, bool) {
	for _, n := range nodes {
		if d, ok := n.(*Directive); ok && d.Name == name {
			return d, true
		}
	}
	return nil, false
}
