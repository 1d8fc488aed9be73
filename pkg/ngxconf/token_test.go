package ngxconf

import (
	"reflect"
	"testing"
)

func texts(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n  ", nil},
		{"bare words", "listen 8080", []string{"listen", "8080"}},
		{"directive", "listen 8080;", []string{"listen", "8080", ";"}},
		{"structural split words", "server{listen 80;}", []string{"server", "{", "listen", "80", ";", "}"}},
		{"comment to eol", "listen 80; # comment ; { }\nroot /srv;", []string{"listen", "80", ";", "root", "/srv", ";"}},
		{"comment discards pending word", "roo#t\nlisten 80;", []string{"listen", "80", ";"}},
		{"comment at eof", "listen 80; # trailing", []string{"listen", "80", ";"}},
		{"quoted with spaces", `root "a b";`, []string{"root", "a b", ";"}},
		{"single quotes", `index 'x y.html';`, []string{"index", "x y.html", ";"}},
		{"quoted structural chars stay literal", `return "{;}";`, []string{"return", "{;}", ";"}},
		{"unterminated quote tolerated", `root "half`, []string{"root", "half"}},
		{"escape collapses backslash", `root "c:\\path with spaces";`, []string{"root", `c:\path with spaces`, ";"}},
		{"escaped quote", `arg "say \"hi\"";`, []string{"arg", `say "hi"`, ";"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Tokenize(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q)=%#v want=%#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeQuotedFlag(t *testing.T) {
	tokens := Tokenize(`a "{" {`)
	if len(tokens) != 3 {
		t.Fatalf("want 3 tokens, got %#v", tokens)
	}
	if !tokens[1].Quoted || tokens[1].Text != "{" {
		t.Fatalf("quoted brace should carry Quoted=true: %#v", tokens[1])
	}
	if tokens[2].Quoted {
		t.Fatalf("structural brace should not be quoted: %#v", tokens[2])
	}
}

func TestTokenizeNeverEmitsEmptyTokens(t *testing.T) {
	for _, in := range []string{`""`, "''", "  ;  ", "#only comment"} {
		for _, tok := range Tokenize(in) {
			if tok.Text == "" {
				t.Fatalf("empty token emitted for input %q", in)
			}
		}
	}
}
