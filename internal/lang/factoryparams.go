package lang

import (
	"fmt"
	"strconv"

	"github.com/nyxaudio/synthd/internal/signal"
)

// ParamKind tags which case a ParamValue holds.
type ParamKind int

const (
	ParamInteger ParamKind = iota
	ParamFloat
	ParamString
	ParamGenerator
)

// ParamValue is one argument value in a FactoryParameters bag: an Integer,
// Float, String, or a compiled Generator subtree.
type ParamValue struct {
	Kind      ParamKind
	Integer   int64
	Float     float32
	String    string
	Generator signal.Generator
}

// FactoryError reports a factory construction failure: a missing required
// parameter, a value of the wrong shape, or a value that can't convert to
// the type the factory needs.
type FactoryError struct {
	Kind string
	msg  string
}

func (e *FactoryError) Error() string { return e.msg }

func missingParam(name string, pos int) *FactoryError {
	return &FactoryError{Kind: "MissingRequiredParam", msg: fmt.Sprintf("missing required parameter %q (position %d)", name, pos)}
}

func cannotConvert(to, from string) *FactoryError {
	return &FactoryError{Kind: "CannotConvert", msg: fmt.Sprintf("cannot convert %s to %s", from, to)}
}

// FactoryParameters is the keyed argument bag a factory consumes. Positional
// arguments are stored under stringified indices ("0", "1", ...); named
// arguments under their identifier. Lookup resolves by name first, then by
// position.
type FactoryParameters struct {
	Env    signal.Environment
	Values map[string]ParamValue
}

// NewFactoryParameters builds an empty bag over env.
func NewFactoryParameters(env signal.Environment) *FactoryParameters {
	return &FactoryParameters{Env: env, Values: make(map[string]ParamValue)}
}

func (fp *FactoryParameters) lookup(name string, pos int) (ParamValue, bool) {
	if v, ok := fp.Values[name]; ok {
		return v, true
	}
	if v, ok := fp.Values[strconv.Itoa(pos)]; ok {
		return v, true
	}
	return ParamValue{}, false
}

// Remove removes and returns a required value (by name, falling back to
// position), reporting MissingRequiredParam if absent.
func (fp *FactoryParameters) Remove(name string, pos int) (ParamValue, error) {
	if v, ok := fp.Values[name]; ok {
		delete(fp.Values, name)
		return v, nil
	}
	key := strconv.Itoa(pos)
	if v, ok := fp.Values[key]; ok {
		delete(fp.Values, key)
		return v, nil
	}
	return ParamValue{}, missingParam(name, pos)
}

// Get returns a value by name/position, or def if absent.
func (fp *FactoryParameters) Get(name string, pos int, def ParamValue) ParamValue {
	if v, ok := fp.lookup(name, pos); ok {
		return v
	}
	return def
}

// AsFloat coerces v to float32: Integer -> as f32; String -> parse; Generator
// -> eval in a default Parameters, take entry 0.
func (v ParamValue) AsFloat() (float32, error) {
	switch v.Kind {
	case ParamInteger:
		return float32(v.Integer), nil
	case ParamFloat:
		return v.Float, nil
	case ParamString:
		f, err := strconv.ParseFloat(v.String, 32)
		if err != nil {
			return 0, cannotConvert("float", "string "+v.String)
		}
		return float32(f), nil
	case ParamGenerator:
		p := signal.NewParameters(signal.DefaultEnvironment())
		return v.Generator.Eval(p).First(), nil
	}
	return 0, cannotConvert("float", "unknown")
}

// AsInt coerces v to an int, truncating a float result.
func (v ParamValue) AsInt() (int, error) {
	f, err := v.AsFloat()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// AsString coerces v to string: Integer/Float -> decimal; String -> itself;
// Generator -> error (generators have no textual form).
func (v ParamValue) AsString() (string, error) {
	switch v.Kind {
	case ParamInteger:
		return strconv.FormatInt(v.Integer, 10), nil
	case ParamFloat:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32), nil
	case ParamString:
		return v.String, nil
	case ParamGenerator:
		return "", cannotConvert("string", "generator")
	}
	return "", cannotConvert("string", "unknown")
}

// AsGenerator coerces v to a Generator: Integer/Float wrap in a constant
// param("_", value); String is an error; Generator moves through directly.
func (v ParamValue) AsGenerator() (signal.Generator, error) {
	switch v.Kind {
	case ParamInteger:
		return signal.NewParam("_", float32(v.Integer)), nil
	case ParamFloat:
		return signal.NewParam("_", v.Float), nil
	case ParamGenerator:
		return v.Generator, nil
	case ParamString:
		return nil, cannotConvert("generator", "string "+v.String)
	}
	return nil, cannotConvert("generator", "unknown")
}
