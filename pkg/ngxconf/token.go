package ngxconf

import (
	"strings"
	"unicode"
)

// Token is one lexical unit of an nginx-style config file: a bare word, a
// quoted string (quotes stripped, escapes resolved) or one of the structural
// symbols "{", "}", ";". Quoted reports whether the token came from a quoted
// string, so that a quoted "{" is never treated as a block opener.
type Token struct {
	Text   string
	Quoted bool
}

// Tokenize splits src into an ordered token sequence.
//
// Tokenizing never fails. A '#' starts a line comment and discards any
// pending bare word. An input ending mid-quote emits whatever was accumulated.
// Empty tokens are never emitted.
func Tokenize(src string) []Token {
	var tokens []Token
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, Token{Text: cur.String()})
			cur.Reset()
		}
	}

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case unicode.IsSpace(ch):
			flush()
		case ch == '#':
			cur.Reset()
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case ch == '"' || ch == '\'':
			flush()
			quote := ch
			var quoted strings.Builder
			i++
			for i < len(runes) && runes[i] != quote {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				quoted.WriteRune(runes[i])
				i++
			}
			if quoted.Len() > 0 {
				tokens = append(tokens, Token{Text: quoted.String(), Quoted: true})
			}
		case ch == '{' || ch == '}' || ch == ';':
			flush()
			tokens = append(tokens, Token{Text: string(ch)})
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
	return tokens
}
