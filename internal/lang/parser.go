package lang

import (
	"fmt"

	"github.com/nyxaudio/synthd/internal/signal"
)

// ParseError is a fatal parser error; Kind names which of §4.5's documented
// failure modes occurred.
type ParseError struct {
	Kind string
	msg  string
}

func (e *ParseError) Error() string { return e.msg }

func unexpected(found, expected TokType) *ParseError {
	return &ParseError{Kind: "Unexpected", msg: fmt.Sprintf("found %s, expected %s", found, expected)}
}

func unparseable(found TokType, context string) *ParseError {
	return &ParseError{Kind: "Unparseable", msg: fmt.Sprintf("cannot consume %s token in %s", found, context)}
}

func expectedOp(c rune, found TokType) *ParseError {
	return &ParseError{Kind: "ExpectedOp", msg: fmt.Sprintf("expected %q, found %s", c, found)}
}

func unknownGen(name string) *ParseError {
	return &ParseError{Kind: "UnknownGen", msg: fmt.Sprintf("unknown generator name %s", name)}
}

// Parser is a one-token-lookahead, one-token-pushback recursive-descent
// parser over a Tokenizer, compiling generator-vector source text into
// internal/signal.Generator trees via a Registry.
type Parser struct {
	tzr      *Tokenizer
	env      signal.Environment
	token    Token
	pushback *Token
	registry *Registry
}

// NewParser primes the parser with its first token. env supplies the
// Environment every constructed generator's buffers are sized against.
func NewParser(tzr *Tokenizer, env signal.Environment) (*Parser, error) {
	tok, err := tzr.NextToken()
	if err != nil {
		return nil, err
	}
	return &Parser{tzr: tzr, env: env, token: tok, registry: NewRegistry()}, nil
}

func (p *Parser) pushBack(tok Token) {
	if p.pushback != nil {
		panic("too many pushbacks on parser")
	}
	p.pushback = &tok
}

func (p *Parser) curToken() Token {
	if p.pushback != nil {
		return *p.pushback
	}
	return p.token
}

func (p *Parser) expect(ty TokType) (Token, error) {
	if p.curToken().Type != ty {
		return Token{}, unexpected(p.curToken().Type, ty)
	}
	if p.pushback != nil {
		tok := *p.pushback
		p.pushback = nil
		return tok, nil
	}
	tok := p.token
	next, err := p.tzr.NextToken()
	if err != nil {
		return Token{}, err
	}
	p.token = next
	return tok, nil
}

func (p *Parser) expectIdent() (string, error) {
	tok, err := p.expect(TokIdent)
	if err != nil {
		return "", err
	}
	return tok.Ident, nil
}

func (p *Parser) expectOp(c rune) error {
	cur := p.curToken()
	if cur.Type == TokOper && cur.Oper == c {
		_, err := p.expect(TokOper)
		return err
	}
	return expectedOp(c, cur.Type)
}

func (p *Parser) peekOp(c rune) bool {
	cur := p.curToken()
	return cur.Type == TokOper && cur.Oper == c
}

// ParseExpr parses a single standalone gen_rel expression, without the
// enclosing `[...]` voice-vector syntax ParseGenVec expects. Useful for
// tooling and tests that work with one generator expression at a time.
func (p *Parser) ParseExpr() (signal.Generator, error) {
	return p.parseGenRel()
}

// ParseGenVec parses the top-level `'[' (gen_rel (',' gen_rel)* ','?)? ']'`
// production: one generator expression per voice.
func (p *Parser) ParseGenVec() ([]signal.Generator, error) {
	var ret []signal.Generator
	if err := p.expectOp('['); err != nil {
		return nil, err
	}
	for {
		if err := p.expectOp(']'); err == nil {
			break
		}
		g, err := p.parseGenRel()
		if err != nil {
			return nil, err
		}
		ret = append(ret, g)
		if err := p.expectOp(','); err != nil {
			if err := p.expectOp(']'); err != nil {
				return nil, err
			}
			break
		}
	}
	return ret, nil
}

func (p *Parser) build(name string, vals map[string]ParamValue) (signal.Generator, error) {
	factory, ok := p.registry.Lookup(name)
	if !ok {
		return nil, unknownGen(name)
	}
	fp := NewFactoryParameters(p.env)
	fp.Values = vals
	return factory.Build(fp)
}

func genVal(g signal.Generator) ParamValue  { return ParamValue{Kind: ParamGenerator, Generator: g} }
func strVal(s string) ParamValue            { return ParamValue{Kind: ParamString, String: s} }
func intVal(v int64) ParamValue             { return ParamValue{Kind: ParamInteger, Integer: v} }
func floatVal(v float32) ParamValue         { return ParamValue{Kind: ParamFloat, Float: v} }

// parseGenRel implements `gen_rel := gen_terms ( relop gen_rel )?`. The
// right-hand side recurses at the same precedence level, so chained
// relations like `a < b < c` parse right-associatively as
// rel(a, "<", rel(b, "<", c)).
func (p *Parser) parseGenRel() (signal.Generator, error) {
	left, err := p.parseGenTerms()
	if err != nil {
		return nil, err
	}

	cur := p.curToken()
	if cur.Type != TokOper {
		return left, nil
	}
	c := cur.Oper
	if c != '>' && c != '!' && c != '<' && c != '=' {
		return left, nil
	}
	if _, err := p.expect(TokOper); err != nil {
		return nil, err
	}

	var opStr string
	switch c {
	case '<':
		if p.peekOp('=') {
			if _, err := p.expect(TokOper); err != nil {
				return nil, err
			}
			opStr = "<="
		} else {
			opStr = "<"
		}
	case '>':
		if p.peekOp('=') {
			if _, err := p.expect(TokOper); err != nil {
				return nil, err
			}
			opStr = ">="
		} else {
			opStr = ">"
		}
	case '=':
		if p.peekOp('=') {
			if _, err := p.expect(TokOper); err != nil {
				return nil, err
			}
			opStr = "=="
		} else {
			return nil, unparseable(TokOper, "rel expr")
		}
	case '!':
		if p.peekOp('=') {
			if _, err := p.expect(TokOper); err != nil {
				return nil, err
			}
			opStr = "!="
		} else {
			return nil, unparseable(TokOper, "rel expr")
		}
	}

	right, err := p.parseGenRel()
	if err != nil {
		return nil, err
	}
	return p.build("rel", map[string]ParamValue{
		"0": genVal(left),
		"1": strVal(opStr),
		"2": genVal(right),
	})
}

// parseGenTerms implements `gen_terms := gen_factors ( ('+'|'-') gen_factors )*`,
// desugaring `a-b` into an add term wrapped in negate.
func (p *Parser) parseGenTerms() (signal.Generator, error) {
	var gens []signal.Generator
	first, err := p.parseGenFactors()
	if err != nil {
		return nil, err
	}
	gens = append(gens, first)

	for {
		cur := p.curToken()
		if cur.Type != TokOper {
			break
		}
		switch cur.Oper {
		case '+':
			if err := p.expectOp('+'); err != nil {
				return nil, err
			}
			g, err := p.parseGenFactors()
			if err != nil {
				return nil, err
			}
			gens = append(gens, g)
		case '-':
			if err := p.expectOp('-'); err != nil {
				return nil, err
			}
			g, err := p.parseGenFactors()
			if err != nil {
				return nil, err
			}
			neg, err := p.build("negate", map[string]ParamValue{"0": genVal(g)})
			if err != nil {
				return nil, err
			}
			gens = append(gens, neg)
		default:
			goto done
		}
	}
done:
	if len(gens) == 1 {
		return gens[0], nil
	}
	vals := make(map[string]ParamValue, len(gens))
	for i, g := range gens {
		vals[fmt.Sprintf("%d", i)] = genVal(g)
	}
	return p.build("add", vals)
}

// parseGenFactors implements `gen_factors := gen ( ('*'|'/') gen )*`,
// desugaring `a/b` into a mul term wrapped in reciprocate.
func (p *Parser) parseGenFactors() (signal.Generator, error) {
	var gens []signal.Generator
	first, err := p.parseGen()
	if err != nil {
		return nil, err
	}
	gens = append(gens, first)

	for {
		cur := p.curToken()
		if cur.Type != TokOper {
			break
		}
		switch cur.Oper {
		case '*':
			if err := p.expectOp('*'); err != nil {
				return nil, err
			}
			g, err := p.parseGen()
			if err != nil {
				return nil, err
			}
			gens = append(gens, g)
		case '/':
			if err := p.expectOp('/'); err != nil {
				return nil, err
			}
			g, err := p.parseGen()
			if err != nil {
				return nil, err
			}
			recip, err := p.build("reciprocate", map[string]ParamValue{"0": genVal(g)})
			if err != nil {
				return nil, err
			}
			gens = append(gens, recip)
		default:
			goto done
		}
	}
done:
	if len(gens) == 1 {
		return gens[0], nil
	}
	vals := make(map[string]ParamValue, len(gens))
	for i, g := range gens {
		vals[fmt.Sprintf("%d", i)] = genVal(g)
	}
	return p.build("mul", vals)
}

// parseGen implements the base `gen` production: literals, factory calls,
// bare param references, and parenthesized sub-expressions.
func (p *Parser) parseGen() (signal.Generator, error) {
	cur := p.curToken()
	switch cur.Type {
	case TokInteger:
		if _, err := p.expect(TokInteger); err != nil {
			return nil, err
		}
		return p.build("param", map[string]ParamValue{"0": strVal("_"), "1": intVal(cur.Integer)})
	case TokFloat:
		if _, err := p.expect(TokFloat); err != nil {
			return nil, err
		}
		return p.build("param", map[string]ParamValue{"0": strVal("_"), "1": floatVal(cur.Float)})
	case TokIdent:
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if p.peekOp('(') {
			vals, err := p.parseFactoryParams()
			if err != nil {
				return nil, err
			}
			return p.build(name, vals)
		}
		return p.build("param", map[string]ParamValue{"0": strVal(name)})
	case TokOper:
		if cur.Oper == '(' {
			if _, err := p.expect(TokOper); err != nil {
				return nil, err
			}
			g, err := p.parseGenRel()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(')'); err != nil {
				return nil, err
			}
			return g, nil
		}
		return nil, unparseable(TokOper, "gen")
	default:
		return nil, unparseable(cur.Type, "gen")
	}
}

// parseFactoryParams implements `'(' param_list? ')'`.
func (p *Parser) parseFactoryParams() (map[string]ParamValue, error) {
	if err := p.expectOp('('); err != nil {
		return nil, err
	}
	vals := make(map[string]ParamValue)
	ctr := 0
	for {
		if err := p.expectOp(')'); err == nil {
			break
		}
		name, val, newCtr, err := p.parseParam(ctr)
		if err != nil {
			return nil, err
		}
		vals[name] = val
		ctr = newCtr

		if err := p.expectOp(','); err != nil {
			if err := p.expectOp(')'); err != nil {
				return nil, err
			}
			break
		}
	}
	return vals, nil
}

// parseParam implements `param := Ident '=' value | value`, threading the
// positional counter through: named arguments don't advance it.
func (p *Parser) parseParam(pos int) (string, ParamValue, int, error) {
	ctr := pos
	var name string

	savedTok := p.curToken()
	if savedTok.Type == TokIdent {
		ident, err := p.expectIdent()
		if err == nil {
			if eqErr := p.expectOp('='); eqErr == nil {
				name = ident
			} else {
				p.pushBack(identTok(ident))
				ctr++
				name = fmt.Sprintf("%d", ctr-1)
			}
		}
	} else {
		ctr++
		name = fmt.Sprintf("%d", ctr-1)
	}

	cur := p.curToken()
	switch cur.Type {
	case TokString:
		tok, err := p.expect(TokString)
		if err != nil {
			return "", ParamValue{}, ctr, err
		}
		return name, strVal(tok.Str), ctr, nil
	case TokInteger, TokFloat, TokIdent:
		g, err := p.parseGenRel()
		if err != nil {
			return "", ParamValue{}, ctr, err
		}
		return name, genVal(g), ctr, nil
	case TokOper:
		if cur.Oper == '(' {
			g, err := p.parseGenRel()
			if err != nil {
				return "", ParamValue{}, ctr, err
			}
			return name, genVal(g), ctr, nil
		}
		return "", ParamValue{}, ctr, unparseable(cur.Type, "param value")
	default:
		return "", ParamValue{}, ctr, unparseable(cur.Type, "param value")
	}
}
