package sim

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// evaluator compiles and runs single expressions of the engine DSL. The DSL
// extensions that expr cannot express directly are handled here: auxiliary
// definitions after semicolons are evaluated last-to-first into the
// environment, and the bare draw identifiers gaussian/random are rewritten
// to calls so each textual occurrence yields an independent variate.
type evaluator struct {
	rng   *rand.Rand
	cache map[string]*vm.Program
	funcs map[string]any
}

func newEvaluator(rng *rand.Rand) *evaluator {
	ev := &evaluator{
		rng:   rng,
		cache: make(map[string]*vm.Program),
	}
	ev.funcs = map[string]any{
		"sqrt":  func(x any) float64 { return math.Sqrt(scalar(x)) },
		"exp":   func(x any) float64 { return math.Exp(scalar(x)) },
		"log":   func(x any) float64 { return math.Log(scalar(x)) },
		"sin":   func(x any) float64 { return math.Sin(scalar(x)) },
		"cos":   func(x any) float64 { return math.Cos(scalar(x)) },
		"tan":   func(x any) float64 { return math.Tan(scalar(x)) },
		"sinh":  func(x any) float64 { return math.Sinh(scalar(x)) },
		"cosh":  func(x any) float64 { return math.Cosh(scalar(x)) },
		"tanh":  func(x any) float64 { return math.Tanh(scalar(x)) },
		"abs":   func(x any) float64 { return math.Abs(scalar(x)) },
		"floor": func(x any) float64 { return math.Floor(scalar(x)) },
		"ceil":  func(x any) float64 { return math.Ceil(scalar(x)) },
		"step": func(x any) float64 {
			if scalar(x) >= 0 {
				return 1
			}
			return 0
		},
		"select": func(c, a, b any) float64 {
			if scalar(c) != 0 {
				return scalar(a)
			}
			return scalar(b)
		},
		"gaussian": func() float64 { return ev.rng.NormFloat64() },
		"random":   func() float64 { return ev.rng.Float64() },
	}
	return ev
}

// eval computes a full DSL expression, mutating env with its auxiliary
// definitions.
func (ev *evaluator) eval(source string, env map[string]any) (float64, error) {
	parts := strings.Split(source, ";")
	for i := len(parts) - 1; i >= 1; i-- {
		name, definition, ok := strings.Cut(parts[i], "=")
		if !ok {
			return 0, fmt.Errorf("sim: malformed auxiliary definition %q", parts[i])
		}
		value, err := ev.evalOne(strings.TrimSpace(definition), env)
		if err != nil {
			return 0, err
		}
		env[strings.TrimSpace(name)] = value
	}
	return ev.evalOne(strings.TrimSpace(parts[0]), env)
}

func (ev *evaluator) evalOne(source string, env map[string]any) (float64, error) {
	program, ok := ev.cache[source]
	if !ok {
		compiled, err := expr.Compile(rewriteDraws(source), expr.AllowUndefinedVariables())
		if err != nil {
			return 0, fmt.Errorf("sim: compile %q: %w", source, err)
		}
		program = compiled
		ev.cache[source] = program
	}
	for name, fn := range ev.funcs {
		env[name] = fn
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("sim: evaluate %q: %w", source, err)
	}
	return scalarErr(out)
}

var drawPattern = regexp.MustCompile(`\b(gaussian|random)\b(\s*\()?`)

// rewriteDraws turns bare gaussian/random identifiers into calls, leaving
// existing call syntax alone.
func rewriteDraws(source string) string {
	return drawPattern.ReplaceAllStringFunc(source, func(match string) string {
		if strings.HasSuffix(match, "(") {
			return match
		}
		return match + "()"
	})
}

func scalar(value any) float64 {
	f, _ := scalarErr(value)
	return f
}

func scalarErr(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("sim: expression yielded non-numeric value %v", value)
}
