package ngxconf

import (
	"reflect"
	"testing"
)

func parseText(t *testing.T, src string) []Node {
	t.Helper()
	return Parse(Tokenize(src))
}

func TestParseDirectivesAndBlocks(t *testing.T) {
	nodes := parseText(t, `
		worker_processes 2;
		http {
			server {
				listen 8080;
				location /x { try_files /a.html /b.html; }
			}
		}
	`)
	if len(nodes) != 2 {
		t.Fatalf("want 2 top nodes, got %d", len(nodes))
	}
	d, ok := nodes[0].(*Directive)
	if !ok || d.Name != "worker_processes" || !reflect.DeepEqual(d.Args, []string{"2"}) {
		t.Fatalf("unexpected first node: %#v", nodes[0])
	}
	httpBlock, ok := nodes[1].(*Block)
	if !ok || httpBlock.Name != "http" {
		t.Fatalf("unexpected second node: %#v", nodes[1])
	}
	srv, ok := FirstBlock(httpBlock.Children, "server")
	if !ok {
		t.Fatalf("server block missing")
	}
	loc, ok := FirstBlock(srv.Children, "location")
	if !ok || !reflect.DeepEqual(loc.Args, []string{"/x"}) {
		t.Fatalf("unexpected location block: %#v", loc)
	}
	tf, ok := FirstDirective(loc.Children, "try_files")
	if !ok || !reflect.DeepEqual(tf.Args, []string{"/a.html", "/b.html"}) {
		t.Fatalf("unexpected try_files: %#v", tf)
	}
}

func TestParseLeniency(t *testing.T) {
	t.Run("dangling directive before closing brace", func(t *testing.T) {
		nodes := parseText(t, "b { inner arg }")
		blk, ok := nodes[0].(*Block)
		if !ok {
			t.Fatalf("want block, got %#v", nodes[0])
		}
		if len(blk.Children) != 1 {
			t.Fatalf("want 1 child, got %#v", blk.Children)
		}
		d, ok := blk.Children[0].(*Directive)
		if !ok || d.Name != "inner" || !reflect.DeepEqual(d.Args, []string{"arg"}) {
			t.Fatalf("dangling group should become a directive: %#v", blk.Children[0])
		}
	})

	t.Run("stray closing brace is a no-op", func(t *testing.T) {
		nodes := parseText(t, "a; } b;")
		if len(nodes) != 2 {
			t.Fatalf("want both directives kept, got %#v", nodes)
		}
		if nodes[1].(*Directive).Name != "b" {
			t.Fatalf("directive after stray brace lost: %#v", nodes[1])
		}
	})

	t.Run("stray terminators produce no nodes", func(t *testing.T) {
		if nodes := parseText(t, ";;; } ;"); len(nodes) != 0 {
			t.Fatalf("want no nodes, got %#v", nodes)
		}
	})

	t.Run("eof mid-block keeps what was collected", func(t *testing.T) {
		nodes := parseText(t, "outer { a 1; b 2;")
		blk, ok := nodes[0].(*Block)
		if !ok || len(blk.Children) != 2 {
			t.Fatalf("unexpected nodes: %#v", nodes)
		}
	})

	t.Run("anonymous block is skipped but children consumed", func(t *testing.T) {
		nodes := parseText(t, "{ a; } b;")
		if len(nodes) != 1 {
			t.Fatalf("want only trailing directive, got %#v", nodes)
		}
		if nodes[0].(*Directive).Name != "b" {
			t.Fatalf("unexpected node: %#v", nodes[0])
		}
	})

	t.Run("quoted brace is an argument", func(t *testing.T) {
		nodes := parseText(t, `set x "{";`)
		d, ok := nodes[0].(*Directive)
		if !ok || !reflect.DeepEqual(d.Args, []string{"x", "{"}) {
			t.Fatalf("unexpected directive: %#v", nodes[0])
		}
	})
}

func TestQueryHelpers(t *testing.T) {
	nodes := parseText(t, `
		listen 80;
		listen 81;
		server { listen 82; }
		server { listen 83; }
	`)

	ds := Directives(nodes, "listen")
	if len(ds) != 2 || ds[0].Args[0] != "80" || ds[1].Args[0] != "81" {
		t.Fatalf("Directives order wrong: %#v", ds)
	}
	bs := Blocks(nodes, "server")
	if len(bs) != 2 {
		t.Fatalf("Blocks count wrong: %#v", bs)
	}
	// First-match-wins for single-valued lookups.
	if d, ok := FirstDirective(nodes, "listen"); !ok || d.Args[0] != "80" {
		t.Fatalf("FirstDirective wrong: %#v", d)
	}
	if _, ok := FirstDirective(nodes, "missing"); ok {
		t.Fatalf("missing directive should report !ok")
	}
	if got := Blocks(nodes, "missing"); got != nil {
		t.Fatalf("missing block should return nil, got %#v", got)
	}
	// Shallow: nested listen directives are not visible at the top level.
	if len(Directives(bs[0].Children, "listen")) != 1 {
		t.Fatalf("child lookup should see exactly the nested directive")
	}
}
