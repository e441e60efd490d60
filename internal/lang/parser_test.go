package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxaudio/synthd/internal/signal"
)

func parseOne(t *testing.T, src string) signal.Generator {
	t.Helper()
	p, err := NewParser(NewTokenizer(src), signal.DefaultEnvironment())
	require.NoError(t, err)
	g, err := p.parseGenRel()
	require.NoError(t, err)
	return g
}

// TestParserStructuralRoundTrip reproduces §8's parser round-trip law:
// parsing sine(param('f',440)) yields a tree whose root is a Sine whose
// child is a Param named "f" with default 440.
func TestParserStructuralRoundTrip(t *testing.T) {
	g := parseOne(t, `sine(param('f', 440))`)
	sine, ok := g.(*signal.Sine)
	require.True(t, ok, "root should be *signal.Sine, got %T", g)
	param, ok := sine.Freq.(*signal.Param)
	require.True(t, ok, "child should be *signal.Param, got %T", sine.Freq)
	assert.Equal(t, "f", param.Name)
	assert.Equal(t, float32(440), param.Default)
}

// TestOperatorPrecedence reproduces §8's precedence law: a+b*c > d parses
// as rel(add(a, mul(b,c)), ">", d).
func TestOperatorPrecedence(t *testing.T) {
	g := parseOne(t, "a+b*c > d")
	rel, ok := g.(*signal.Rel)
	require.True(t, ok, "root should be *signal.Rel, got %T", g)
	assert.Equal(t, signal.RelGT, rel.Op)

	add, ok := rel.Left.(*signal.Add)
	require.True(t, ok, "rel.Left should be *signal.Add, got %T", rel.Left)
	require.Len(t, add.Children, 2)

	aParam, ok := add.Children[0].(*signal.Param)
	require.True(t, ok)
	assert.Equal(t, "a", aParam.Name)

	mul, ok := add.Children[1].(*signal.Mul)
	require.True(t, ok, "second add term should be *signal.Mul, got %T", add.Children[1])
	require.Len(t, mul.Children, 2)

	dParam, ok := rel.Right.(*signal.Param)
	require.True(t, ok)
	assert.Equal(t, "d", dParam.Name)
}

// TestAddLiteralsScenario reproduces §8's end-to-end scenario 5: parse
// add(1, 2, 3), evaluate with empty Parameters, output entry 0 = 6.0.
func TestAddLiteralsScenario(t *testing.T) {
	g := parseOne(t, "add(1, 2, 3)")
	env := signal.DefaultEnvironment()
	out := g.Eval(signal.NewParameters(env))
	assert.Equal(t, float32(6), out.First())
}

// TestMinusDesugarsToNegatedAdd checks a-b desugars into add(a, negate(b)).
func TestMinusDesugarsToNegatedAdd(t *testing.T) {
	g := parseOne(t, "5-3")
	env := signal.DefaultEnvironment()
	out := g.Eval(signal.NewParameters(env))
	assert.Equal(t, float32(2), out.First())
}

// TestDivideDesugarsToReciprocatedMul checks a/b desugars into
// mul(a, reciprocate(b)).
func TestDivideDesugarsToReciprocatedMul(t *testing.T) {
	g := parseOne(t, "6/3")
	env := signal.DefaultEnvironment()
	out := g.Eval(signal.NewParameters(env))
	assert.Equal(t, float32(2), out.First())
}

// TestFileInclusionEquivalence reproduces §8's scenario 6: parsing a file
// that #includes# another file containing sine(220) is equivalent to
// parsing sine(220) directly.
func TestFileInclusionEquivalence(t *testing.T) {
	dir := t.TempDir()
	incPath := filepath.Join(dir, "b.gen")
	require.NoError(t, os.WriteFile(incPath, []byte("sine(220)"), 0o644))

	src := "#" + incPath + "#"
	g := parseOne(t, src)
	direct := parseOne(t, "sine(220)")

	gSine, ok := g.(*signal.Sine)
	require.True(t, ok)
	dSine, ok := direct.(*signal.Sine)
	require.True(t, ok)

	env := signal.DefaultEnvironment()
	p := signal.NewParameters(env)
	gOut := gSine.Eval(p)
	dOut := dSine.Eval(p)
	for i := 0; i < gOut.Len(); i++ {
		assert.InDelta(t, dOut.At(i), gOut.At(i), 1e-6)
	}
}

func TestUnknownGeneratorNameErrors(t *testing.T) {
	_, err := NewParser(NewTokenizer("bogus(1)"), signal.DefaultEnvironment())
	require.NoError(t, err)
	p, _ := NewParser(NewTokenizer("bogus(1)"), signal.DefaultEnvironment())
	_, err = p.parseGenRel()
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, "UnknownGen", pe.Kind)
}

func TestParseGenVec(t *testing.T) {
	p, err := NewParser(NewTokenizer("[ sine(440), saw(220) ]"), signal.DefaultEnvironment())
	require.NoError(t, err)
	gens, err := p.ParseGenVec()
	require.NoError(t, err)
	require.Len(t, gens, 2)
	_, ok := gens[0].(*signal.Sine)
	assert.True(t, ok)
	_, ok = gens[1].(*signal.Saw)
	assert.True(t, ok)
}
