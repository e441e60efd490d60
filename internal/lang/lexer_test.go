package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	tz := NewTokenizer(src)
	var toks []Token
	for {
		tok, err := tz.NextToken()
		if err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
		if tok.Type == TokEOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestTokenizeIdentAndNumbers(t *testing.T) {
	toks := allTokens(t, "sine(440, 0.5)")
	want := []Token{
		identTok("sine"), operTok('('), intTok(440), operTok(','), floatTok(0.5), operTok(')'),
	}
	assert.Equal(t, want, toks)
}

func TestTokenizeHexAndOctal(t *testing.T) {
	toks := allTokens(t, "0x1F 0o17 0 007")
	assert.Equal(t, []Token{intTok(0x1F), intTok(0o17), intTok(0), intTok(7)}, toks)
}

func TestTokenizeString(t *testing.T) {
	toks := allTokens(t, `"hi\nthere" '\x41'`)
	assert.Equal(t, []Token{stringTok("hi\nthere"), stringTok("A")}, toks)
}

func TestTokenizeBlockComment(t *testing.T) {
	toks := allTokens(t, "a /* comment ) ( */ b")
	assert.Equal(t, []Token{identTok("a"), identTok("b")}, toks)
}

func TestTokenizeUnterminatedCommentIsEOF(t *testing.T) {
	toks := allTokens(t, "a /* never closes")
	assert.Equal(t, []Token{identTok("a")}, toks)
}

func TestTokenizeInclude(t *testing.T) {
	dir := t.TempDir()
	incPath := filepath.Join(dir, "inc.txt")
	if err := os.WriteFile(incPath, []byte("sine(220)"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := "#" + incPath + "#"
	toks := allTokens(t, src)
	assert.Equal(t, []Token{identTok("sine"), operTok('('), intTok(220), operTok(')')}, toks)
}

func TestTokenizeUnknownOperator(t *testing.T) {
	toks := allTokens(t, "@")
	assert.Equal(t, []Token{operTok('@')}, toks)
}
