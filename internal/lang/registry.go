package lang

import (
	"strconv"

	"github.com/nyxaudio/synthd/internal/signal"
)

// Factory constructs one Generator variant from a FactoryParameters bag,
// consuming whichever entries it needs and reporting a FactoryError for a
// missing/mistyped argument.
type Factory interface {
	Build(fp *FactoryParameters) (signal.Generator, error)
}

type factoryFunc func(fp *FactoryParameters) (signal.Generator, error)

func (f factoryFunc) Build(fp *FactoryParameters) (signal.Generator, error) { return f(fp) }

// Registry is the static name -> Factory table the parser resolves factory
// calls against. The variant set is closed, so this table is built once and
// never mutated after construction.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds the registry covering every generator variant in §3.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.register("param", paramFactory)
	r.register("add", addFactory)
	r.register("mul", mulFactory)
	r.register("negate", negateFactory)
	r.register("reciprocate", reciprocateFactory)
	r.register("rel", relFactory)
	r.register("ifelse", ifElseFactory)
	r.register("sine", sineFactory)
	r.register("saw", sawFactory)
	r.register("triangle", triangleFactory)
	r.register("square", squareFactory)
	r.register("noise", noiseFactory)
	r.register("dahdsr", dahdsrFactory)
	r.register("controlrate", controlRateFactory)
	r.register("samplerate", sampleRateFactory)
	r.register("lutdata", lutDataFactory)
	r.register("lutgen", lutGenFactory)
	return r
}

func (r *Registry) register(name string, fn factoryFunc) {
	r.factories[name] = fn
}

// Lookup finds a registered factory by generator name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// collectGenerators gathers positional params "0","1",... as Generators
// until one is missing, the convention Add/Mul's variadic argument lists
// and the parser's own operator desugaring rely on.
func collectGenerators(fp *FactoryParameters) ([]signal.Generator, error) {
	var gens []signal.Generator
	for i := 0; ; i++ {
		v, ok := fp.lookup(strconv.Itoa(i), i)
		if !ok {
			break
		}
		g, err := v.AsGenerator()
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, nil
}

func paramFactory(fp *FactoryParameters) (signal.Generator, error) {
	nameV, err := fp.Remove("name", 0)
	if err != nil {
		return nil, err
	}
	name, err := nameV.AsString()
	if err != nil {
		return nil, err
	}
	var def float32
	if defV, ok := fp.lookup("default", 1); ok {
		def, err = defV.AsFloat()
		if err != nil {
			return nil, err
		}
	}
	return signal.NewParam(name, def), nil
}

func addFactory(fp *FactoryParameters) (signal.Generator, error) {
	gens, err := collectGenerators(fp)
	if err != nil {
		return nil, err
	}
	return signal.NewAdd(fp.Env, gens), nil
}

func mulFactory(fp *FactoryParameters) (signal.Generator, error) {
	gens, err := collectGenerators(fp)
	if err != nil {
		return nil, err
	}
	return signal.NewMul(fp.Env, gens), nil
}

func negateFactory(fp *FactoryParameters) (signal.Generator, error) {
	v, err := fp.Remove("value", 0)
	if err != nil {
		return nil, err
	}
	g, err := v.AsGenerator()
	if err != nil {
		return nil, err
	}
	return signal.NewNegate(fp.Env, g), nil
}

func reciprocateFactory(fp *FactoryParameters) (signal.Generator, error) {
	v, err := fp.Remove("value", 0)
	if err != nil {
		return nil, err
	}
	g, err := v.AsGenerator()
	if err != nil {
		return nil, err
	}
	return signal.NewReciprocate(fp.Env, g), nil
}

func relFactory(fp *FactoryParameters) (signal.Generator, error) {
	leftV, err := fp.Remove("left", 0)
	if err != nil {
		return nil, err
	}
	left, err := leftV.AsGenerator()
	if err != nil {
		return nil, err
	}
	opV, err := fp.Remove("op", 1)
	if err != nil {
		return nil, err
	}
	opStr, err := opV.AsString()
	if err != nil {
		return nil, err
	}
	op, ok := signal.ParseRelOp(opStr)
	if !ok {
		return nil, cannotConvert("RelOp", "string "+opStr)
	}
	rightV, err := fp.Remove("right", 2)
	if err != nil {
		return nil, err
	}
	right, err := rightV.AsGenerator()
	if err != nil {
		return nil, err
	}
	return signal.NewRel(fp.Env, left, right, op), nil
}

func ifElseFactory(fp *FactoryParameters) (signal.Generator, error) {
	condV, err := fp.Remove("cond", 0)
	if err != nil {
		return nil, err
	}
	cond, err := condV.AsGenerator()
	if err != nil {
		return nil, err
	}
	ifTrueV, err := fp.Remove("iftrue", 1)
	if err != nil {
		return nil, err
	}
	ifTrue, err := ifTrueV.AsGenerator()
	if err != nil {
		return nil, err
	}
	ifFalseV, err := fp.Remove("iffalse", 2)
	if err != nil {
		return nil, err
	}
	ifFalse, err := ifFalseV.AsGenerator()
	if err != nil {
		return nil, err
	}
	return signal.NewIfElse(fp.Env, cond, ifTrue, ifFalse), nil
}

func freqPhase(fp *FactoryParameters) (signal.Generator, signal.Generator, error) {
	freqV, err := fp.Remove("freq", 0)
	if err != nil {
		return nil, nil, err
	}
	freq, err := freqV.AsGenerator()
	if err != nil {
		return nil, nil, err
	}
	var phase signal.Generator
	if phaseV, ok := fp.lookup("phase", 1); ok {
		phase, err = phaseV.AsGenerator()
		if err != nil {
			return nil, nil, err
		}
	}
	return freq, phase, nil
}

func sineFactory(fp *FactoryParameters) (signal.Generator, error) {
	freq, phase, err := freqPhase(fp)
	if err != nil {
		return nil, err
	}
	return signal.NewSine(fp.Env, freq, phase), nil
}

func sawFactory(fp *FactoryParameters) (signal.Generator, error) {
	freq, phase, err := freqPhase(fp)
	if err != nil {
		return nil, err
	}
	return signal.NewSaw(fp.Env, freq, phase), nil
}

func triangleFactory(fp *FactoryParameters) (signal.Generator, error) {
	freq, phase, err := freqPhase(fp)
	if err != nil {
		return nil, err
	}
	return signal.NewTriangle(fp.Env, freq, phase), nil
}

func squareFactory(fp *FactoryParameters) (signal.Generator, error) {
	freq, phase, err := freqPhase(fp)
	if err != nil {
		return nil, err
	}
	return signal.NewSquare(fp.Env, freq, phase), nil
}

func noiseFactory(fp *FactoryParameters) (signal.Generator, error) {
	return signal.NewNoise(fp.Env), nil
}

func dahdsrFactory(fp *FactoryParameters) (signal.Generator, error) {
	names := []string{"gate", "delay", "attack", "hold", "decay", "sustain", "release"}
	gens := make([]signal.Generator, len(names))
	for i, name := range names {
		v, err := fp.Remove(name, i)
		if err != nil {
			return nil, err
		}
		g, err := v.AsGenerator()
		if err != nil {
			return nil, err
		}
		gens[i] = g
	}
	return signal.NewDAHDSR(fp.Env, gens[0], gens[1], gens[2], gens[3], gens[4], gens[5], gens[6]), nil
}

func controlRateFactory(fp *FactoryParameters) (signal.Generator, error) {
	v, err := fp.Remove("gen", 0)
	if err != nil {
		return nil, err
	}
	g, err := v.AsGenerator()
	if err != nil {
		return nil, err
	}
	return signal.NewControlRateAdapter(g), nil
}

func sampleRateFactory(fp *FactoryParameters) (signal.Generator, error) {
	return signal.NewSampleRateConstant(), nil
}

func lutDataFactory(fp *FactoryParameters) (signal.Generator, error) {
	freqV, err := fp.Remove("freq", 0)
	if err != nil {
		return nil, err
	}
	freq, err := freqV.AsGenerator()
	if err != nil {
		return nil, err
	}
	var phase float32
	if phaseV, ok := fp.lookup("phase", 1); ok {
		phase, err = phaseV.AsFloat()
		if err != nil {
			return nil, err
		}
	}
	var table []float32
	for i := 2; ; i++ {
		v, ok := fp.lookup(strconv.Itoa(i), i)
		if !ok {
			break
		}
		f, err := v.AsFloat()
		if err != nil {
			return nil, err
		}
		table = append(table, f)
	}
	if len(table) == 0 {
		return nil, missingParam("samples", 2)
	}
	return signal.NewLut(fp.Env, freq, phase, table), nil
}

func lutGenFactory(fp *FactoryParameters) (signal.Generator, error) {
	genV, err := fp.Remove("gen", 0)
	if err != nil {
		return nil, err
	}
	gen, err := genV.AsGenerator()
	if err != nil {
		return nil, err
	}
	samplesV, err := fp.Remove("samples", 1)
	if err != nil {
		return nil, err
	}
	samples, err := samplesV.AsInt()
	if err != nil {
		return nil, err
	}
	freqV, err := fp.Remove("freq", 2)
	if err != nil {
		return nil, err
	}
	freq, err := freqV.AsGenerator()
	if err != nil {
		return nil, err
	}
	var phase float32
	if phaseV, ok := fp.lookup("phase", 3); ok {
		phase, err = phaseV.AsFloat()
		if err != nil {
			return nil, err
		}
	}
	varName := "lut_freq"
	if varV, ok := fp.lookup("var", 4); ok {
		varName, err = varV.AsString()
		if err != nil {
			return nil, err
		}
	}
	table := signal.RenderLutTable(fp.Env, gen, samples, varName)
	return signal.NewLut(fp.Env, freq, phase, table), nil
}
