package engine

// Recorder implements the stepping-engine primitive interface by recording
// an in-memory step program and owning the variable namespaces.
//
// Like the engine it models, Recorder maintains the global kinetic-energy
// accumulator mvv itself: client steps cannot assign it, and any expression
// reading mvv after a velocity update gets a fresh sum inserted first. The
// first expression referencing a force variable likewise triggers a context
// state refresh so forces and energies are current.
type Recorder struct {
	steps  Program
	global map[string]float64
	perDof map[string]float64

	globalValues map[string]float64
	perDofValues map[string][]float64

	depth                int
	obsoleteKinetic      bool
	obsoleteContextState bool
}

func NewRecorder() *Recorder {
	r := &Recorder{
		global:               make(map[string]float64),
		perDof:               make(map[string]float64),
		globalValues:         make(map[string]float64),
		perDofValues:         make(map[string][]float64),
		obsoleteKinetic:      true,
		obsoleteContextState: true,
	}
	r.global["mvv"] = 0
	return r
}

func (r *Recorder) AddGlobalVariable(name string, value float64) error {
	if r.declared(name) {
		return &DeclarationError{Name: name, Wrapped: ErrDuplicateVariable}
	}
	r.global[name] = value
	return nil
}

func (r *Recorder) AddPerDofVariable(name string, value float64) error {
	if r.declared(name) {
		return &DeclarationError{Name: name, Wrapped: ErrDuplicateVariable}
	}
	r.perDof[name] = value
	return nil
}

func (r *Recorder) declared(name string) bool {
	if _, ok := r.global[name]; ok {
		return true
	}
	_, ok := r.perDof[name]
	return ok
}

// checkUpdate inserts the mvv recomputation and context-state refresh ahead
// of a step whose expression depends on them.
func (r *Recorder) checkUpdate(variable, expression string) {
	required := requiredVariables(variable, expression)
	if r.obsoleteKinetic {
		for _, name := range required {
			if name == "mvv" {
				r.steps = append(r.steps, Step{Op: OpComputeSum, Variable: "mvv", Expression: "m*v*v"})
				r.obsoleteKinetic = false
				break
			}
		}
	}
	if r.obsoleteContextState && referencesForce(required) {
		r.steps = append(r.steps, Step{Op: OpUpdateContextState})
		r.obsoleteContextState = false
	}
}

func (r *Recorder) AddComputeGlobal(variable, expression string) error {
	if variable == "mvv" {
		return &DeclarationError{Name: variable, Wrapped: ErrReservedVariable}
	}
	r.checkUpdate(variable, expression)
	r.steps = append(r.steps, Step{Op: OpComputeGlobal, Variable: variable, Expression: expression})
	return nil
}

func (r *Recorder) AddComputePerDof(variable, expression string) error {
	if variable == "mvv" {
		return &DeclarationError{Name: variable, Wrapped: ErrReservedVariable}
	}
	r.checkUpdate(variable, expression)
	r.steps = append(r.steps, Step{Op: OpComputePerDof, Variable: variable, Expression: expression})
	if variable == "v" {
		r.obsoleteKinetic = true
	}
	return nil
}

func (r *Recorder) AddComputeSum(variable, expression string) error {
	if variable == "mvv" {
		return &DeclarationError{Name: variable, Wrapped: ErrReservedVariable}
	}
	r.checkUpdate(variable, expression)
	r.steps = append(r.steps, Step{Op: OpComputeSum, Variable: variable, Expression: expression})
	return nil
}

func (r *Recorder) BeginWhileBlock(condition string) {
	r.steps = append(r.steps, Step{Op: OpBeginWhile, Expression: condition})
	r.depth++
}

func (r *Recorder) BeginIfBlock(condition string) {
	r.steps = append(r.steps, Step{Op: OpBeginIf, Expression: condition})
	r.depth++
}

func (r *Recorder) EndBlock() error {
	if r.depth == 0 {
		return ErrUnbalancedBlocks
	}
	r.depth--
	r.steps = append(r.steps, Step{Op: OpEndBlock})
	return nil
}

func (r *Recorder) AddConstrainPositions() {
	r.steps = append(r.steps, Step{Op: OpConstrainPositions})
}

func (r *Recorder) AddConstrainVelocities() {
	r.steps = append(r.steps, Step{Op: OpConstrainVelocities})
}

// AddUpdateContextState emits a refresh only when one is still pending, so
// repeated requests collapse into a single step.
func (r *Recorder) AddUpdateContextState() {
	if r.obsoleteContextState {
		r.steps = append(r.steps, Step{Op: OpUpdateContextState})
		r.obsoleteContextState = false
	}
}

// Program returns a copy of the recorded step sequence, failing if any
// block was left open.
func (r *Recorder) Program() (Program, error) {
	if r.depth != 0 {
		return nil, ErrUnbalancedBlocks
	}
	p := make(Program, len(r.steps))
	copy(p, r.steps)
	return p, nil
}

// GlobalDefaults returns the declared global variables and their defaults,
// including the engine-owned mvv accumulator.
func (r *Recorder) GlobalDefaults() map[string]float64 {
	defaults := make(map[string]float64, len(r.global))
	for name, value := range r.global {
		defaults[name] = value
	}
	return defaults
}

// PerDofDefaults returns the declared per-dof variables and their defaults.
func (r *Recorder) PerDofDefaults() map[string]float64 {
	defaults := make(map[string]float64, len(r.perDof))
	for name, value := range r.perDof {
		defaults[name] = value
	}
	return defaults
}

func (r *Recorder) GetGlobalVariableByName(name string) (float64, error) {
	def, ok := r.global[name]
	if !ok {
		return 0, &DeclarationError{Name: name, Wrapped: ErrUndefinedVariable}
	}
	if value, ok := r.globalValues[name]; ok {
		return value, nil
	}
	return def, nil
}

func (r *Recorder) SetGlobalVariableByName(name string, value float64) error {
	if _, ok := r.global[name]; !ok {
		return &DeclarationError{Name: name, Wrapped: ErrUndefinedVariable}
	}
	r.globalValues[name] = value
	return nil
}

// GetPerDofVariableByName returns the explicitly set values for name, or nil
// if only the declared default applies.
func (r *Recorder) GetPerDofVariableByName(name string) ([]float64, error) {
	if _, ok := r.perDof[name]; !ok {
		return nil, &DeclarationError{Name: name, Wrapped: ErrUndefinedVariable}
	}
	values := r.perDofValues[name]
	if values == nil {
		return nil, nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

func (r *Recorder) SetPerDofVariableByName(name string, values []float64) error {
	if _, ok := r.perDof[name]; !ok {
		return &DeclarationError{Name: name, Wrapped: ErrUndefinedVariable}
	}
	owned := make([]float64, len(values))
	copy(owned, values)
	r.perDofValues[name] = owned
	return nil
}

// GlobalValues returns current explicit global values layered over defaults.
func (r *Recorder) GlobalValues() map[string]float64 {
	values := r.GlobalDefaults()
	for name, value := range r.globalValues {
		values[name] = value
	}
	return values
}

// PerDofValues returns the explicitly set per-dof vectors.
func (r *Recorder) PerDofValues() map[string][]float64 {
	values := make(map[string][]float64, len(r.perDofValues))
	for name, vector := range r.perDofValues {
		out := make([]float64, len(vector))
		copy(out, vector)
		values[name] = out
	}
	return values
}
