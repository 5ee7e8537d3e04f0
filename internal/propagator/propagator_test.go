package propagator

import "fmt"

// fakeEngine records emitted primitives for structural assertions.
type fakeEngine struct {
	steps []fakeStep
	depth int
}

type fakeStep struct {
	op       string
	variable string
	expr     string
}

func (e *fakeEngine) AddGlobalVariable(name string, value float64) error {
	e.steps = append(e.steps, fakeStep{"global", name, num(value)})
	return nil
}

func (e *fakeEngine) AddPerDofVariable(name string, value float64) error {
	e.steps = append(e.steps, fakeStep{"perdof", name, num(value)})
	return nil
}

func (e *fakeEngine) AddComputeGlobal(variable, expression string) error {
	e.steps = append(e.steps, fakeStep{"computeGlobal", variable, expression})
	return nil
}

func (e *fakeEngine) AddComputePerDof(variable, expression string) error {
	e.steps = append(e.steps, fakeStep{"computePerDof", variable, expression})
	return nil
}

func (e *fakeEngine) AddComputeSum(variable, expression string) error {
	e.steps = append(e.steps, fakeStep{"computeSum", variable, expression})
	return nil
}

func (e *fakeEngine) BeginWhileBlock(condition string) {
	e.steps = append(e.steps, fakeStep{"while", "", condition})
	e.depth++
}

func (e *fakeEngine) BeginIfBlock(condition string) {
	e.steps = append(e.steps, fakeStep{"if", "", condition})
	e.depth++
}

func (e *fakeEngine) EndBlock() error {
	if e.depth == 0 {
		return fmt.Errorf("unbalanced end block")
	}
	e.depth--
	e.steps = append(e.steps, fakeStep{"end", "", ""})
	return nil
}

func (e *fakeEngine) AddConstrainPositions() {
	e.steps = append(e.steps, fakeStep{"constrainPositions", "", ""})
}

func (e *fakeEngine) AddConstrainVelocities() {
	e.steps = append(e.steps, fakeStep{"constrainVelocities", "", ""})
}

func (e *fakeEngine) AddUpdateContextState() {
	e.steps = append(e.steps, fakeStep{"updateContextState", "", ""})
}

type probeCall struct {
	id       string
	fraction float64
}

// probe is a leaf that logs every application with its fraction. Clones
// share the log so fraction accounting survives deep-copy-on-compose.
type probe struct {
	reg *Registry
	id  string
	log *[]probeCall
}

func newProbe(id string, log *[]probeCall) *probe {
	return &probe{reg: NewRegistry(), id: id, log: log}
}

func (p *probe) Registry() *Registry { return p.reg }

func (p *probe) Clone() Propagator {
	return &probe{reg: p.reg.Clone(), id: p.id, log: p.log}
}

func (p *probe) AddSteps(e Engine, fraction float64) error {
	*p.log = append(*p.log, probeCall{p.id, fraction})
	return e.AddComputePerDof(p.id, fmt.Sprintf("%s + %s", p.id, num(fraction)))
}
