// Package lang implements the expression language front end: a tokenizer
// with file-inclusion support, and a recursive-descent parser with operator
// precedence that compiles generator-vector source text into a tree of
// internal/signal.Generator values via a static factory registry.
package lang

import "fmt"

// TokType names the kind of a Token without its payload, used for lookahead
// checks and error messages.
type TokType int

const (
	TokIdent TokType = iota
	TokInteger
	TokFloat
	TokOper
	TokString
	TokEOF
)

func (t TokType) String() string {
	switch t {
	case TokIdent:
		return "Ident"
	case TokInteger:
		return "Integer"
	case TokFloat:
		return "Float"
	case TokOper:
		return "Oper"
	case TokString:
		return "String"
	case TokEOF:
		return "EOF"
	default:
		return "?"
	}
}

// Token is one lexeme produced by the Tokenizer. Exactly one of the typed
// fields is meaningful, selected by Type.
type Token struct {
	Type    TokType
	Ident   string
	Integer int64
	Float   float32
	Oper    rune
	Str     string
}

func (t Token) String() string {
	switch t.Type {
	case TokIdent:
		return fmt.Sprintf("Ident(%q)", t.Ident)
	case TokInteger:
		return fmt.Sprintf("Integer(%d)", t.Integer)
	case TokFloat:
		return fmt.Sprintf("Float(%g)", t.Float)
	case TokOper:
		return fmt.Sprintf("Oper(%q)", t.Oper)
	case TokString:
		return fmt.Sprintf("String(%q)", t.Str)
	default:
		return "EOF"
	}
}

func identTok(s string) Token   { return Token{Type: TokIdent, Ident: s} }
func intTok(v int64) Token      { return Token{Type: TokInteger, Integer: v} }
func floatTok(v float32) Token  { return Token{Type: TokFloat, Float: v} }
func operTok(c rune) Token      { return Token{Type: TokOper, Oper: c} }
func stringTok(s string) Token  { return Token{Type: TokString, Str: s} }
func eofTok() Token             { return Token{Type: TokEOF} }
