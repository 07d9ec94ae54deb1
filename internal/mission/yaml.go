package mission

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cliff-rosen/jam-bot-sub001/internal/plan"
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
	"github.com/cliff-rosen/jam-bot-sub001/internal/tool"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// Mission definitions are written by hand, so they reference variables by
// name instead of by ID. The loader builds the tree in two passes: pass one
// creates every scope and variable with generated IDs and records a
// name table per scope, pass two resolves mapping references against those
// tables using the same visibility order the scope resolver applies at
// runtime (own scope, then prior siblings nearest-first, then ancestors).

// definitionFile is the on-disk shape of a mission definition.
type definitionFile struct {
	Goal            string        `yaml:"goal"`
	SuccessCriteria []string      `yaml:"success_criteria"`
	State           []variableDef `yaml:"state"`
	Workflow        *workflowDef  `yaml:"workflow"`
}

type variableDef struct {
	Name   string        `yaml:"name"`
	IOType string        `yaml:"io_type"`
	Schema schema.Schema `yaml:"schema"`
	Value  any           `yaml:"value"`
}

// mappingDef is one wire in a definition. Exactly one of Parameter or
// Variable names the target; Source names the providing variable.
type mappingDef struct {
	Source       string `yaml:"source"`
	Parameter    string `yaml:"parameter"`
	Variable     string `yaml:"variable"`
	Operation    string `yaml:"operation"`
	Required     bool   `yaml:"required"`
	ParentOutput bool   `yaml:"parent_output"`
	Selector     string `yaml:"selector"`
}

type workflowDef struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	State       []variableDef `yaml:"state"`
	Inputs      []mappingDef  `yaml:"inputs"`
	Outputs     []mappingDef  `yaml:"outputs"`
	Stages      []stageDef    `yaml:"stages"`
}

type stageDef struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	State       []variableDef `yaml:"state"`
	Inputs      []mappingDef  `yaml:"inputs"`
	Outputs     []mappingDef  `yaml:"outputs"`
	Steps       []stepDef     `yaml:"steps"`
}

type stepDef struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Type        string        `yaml:"type"`
	Tool        string        `yaml:"tool"`
	State       []variableDef `yaml:"state"`
	Inputs      []mappingDef  `yaml:"inputs"`
	Outputs     []mappingDef  `yaml:"outputs"`
	Substeps    []stepDef     `yaml:"substeps"`
}

// LoadMission reads a YAML mission definition from disk. The registry is
// optional; when present, parameter targets inherit the declared schema and
// required flag from the named tool's spec.
func LoadMission(path string, registry tool.Registry) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.MISSION_LOAD_FAILED,
			fmt.Sprintf("cannot read mission definition %s", path), err)
	}
	return ParseMission(data, registry)
}

// ParseMission decodes a YAML mission definition into a Mission awaiting
// proposal acceptance.
func ParseMission(data []byte, registry tool.Registry) (*Mission, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def definitionFile
	if err := dec.Decode(&def); err != nil {
		return nil, types.WrapError(types.MISSION_PARSE_FAILED, "mission definition is not valid YAML", err)
	}
	if def.Goal == "" {
		return nil, types.NewError(types.MISSION_PARSE_FAILED, "mission definition has no goal")
	}
	if def.Workflow == nil {
		return nil, types.NewError(types.MISSION_PARSE_FAILED, "mission definition has no workflow")
	}

	l := &loader{registry: registry}

	m := &Mission{
		ID:              types.NewID(),
		Goal:            def.Goal,
		SuccessCriteria: def.SuccessCriteria,
		Status:          MissionStatusActive,
		CollabArea:      CollabAreaMissionProposal,
	}

	missionNames := newNameScope(nil)
	vars, err := l.buildVariables(def.State, m.ID, missionNames)
	if err != nil {
		return nil, err
	}
	m.State = vars

	workflow, err := l.buildWorkflow(def.Workflow, missionNames)
	if err != nil {
		return nil, err
	}
	m.Workflow = workflow

	if err := l.wire(); err != nil {
		return nil, err
	}
	return m, nil
}

// loader carries the cross-pass state: the optional tool registry and the
// mapping jobs deferred to pass two.
type loader struct {
	registry tool.Registry
	jobs     []wireJob
}

// wireJob defers one scope's mapping resolution until every scope and
// variable in the tree exists.
type wireJob struct {
	names   *nameScope
	inputs  []mappingDef
	outputs []mappingDef
	spec    *tool.Spec
	assign  func(inputs, outputs []plan.Mapping)
}

// nameScope is the per-scope name table used to resolve references.
type nameScope struct {
	parent *nameScope
	vars   map[string]types.ID
	priors []*nameScope
}

func newNameScope(parent *nameScope) *nameScope {
	return &nameScope{parent: parent, vars: make(map[string]types.ID)}
}

// resolve finds a variable by name: own scope first, then prior siblings
// nearest-first, then the parent chain.
func (n *nameScope) resolve(name string) (types.ID, bool) {
	if id, ok := n.vars[name]; ok {
		return id, true
	}
	for i := len(n.priors) - 1; i >= 0; i-- {
		if id, ok := n.priors[i].vars[name]; ok {
			return id, true
		}
	}
	if n.parent != nil {
		return n.parent.resolve(name)
	}
	return "", false
}

func (l *loader) buildVariables(defs []variableDef, createdBy types.ID, names *nameScope) ([]*plan.Variable, error) {
	var out []*plan.Variable
	for _, d := range defs {
		if d.Name == "" {
			return nil, types.NewError(types.MISSION_PARSE_FAILED, "variable has no name")
		}
		if _, exists := names.vars[d.Name]; exists {
			return nil, types.NewError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("variable %q declared twice in the same scope", d.Name))
		}

		ioType := plan.IOType(d.IOType)
		if d.IOType == "" {
			ioType = plan.IOTypeWIP
		}
		if !ioType.IsValid() {
			return nil, types.NewError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("variable %q has unknown io_type %q", d.Name, d.IOType))
		}
		if err := d.Schema.Validate(); err != nil {
			return nil, types.WrapError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("variable %q has an invalid schema", d.Name), err)
		}

		v := plan.NewVariable(d.Name, d.Schema, ioType, createdBy)
		if d.Value != nil {
			v.SetValue(d.Value)
		}
		names.vars[d.Name] = v.ID
		out = append(out, v)
	}
	return out, nil
}

func (l *loader) buildWorkflow(def *workflowDef, missionNames *nameScope) (*plan.Workflow, error) {
	w := &plan.Workflow{
		ID:          types.NewID(),
		Name:        def.Name,
		Description: def.Description,
	}

	names := newNameScope(missionNames)
	vars, err := l.buildVariables(def.State, w.ID, names)
	if err != nil {
		return nil, err
	}
	w.State = vars

	l.jobs = append(l.jobs, wireJob{
		names:   names,
		inputs:  def.Inputs,
		outputs: def.Outputs,
		assign: func(in, out []plan.Mapping) {
			w.InputMappings = in
			w.OutputMappings = out
		},
	})

	var priorNames []*nameScope
	for i := range def.Stages {
		stage, stageNames, err := l.buildStage(&def.Stages[i], names, priorNames)
		if err != nil {
			return nil, err
		}
		w.Stages = append(w.Stages, stage)
		priorNames = append(priorNames, stageNames)
	}
	return w, nil
}

func (l *loader) buildStage(def *stageDef, parent *nameScope, priors []*nameScope) (*plan.Stage, *nameScope, error) {
	st := &plan.Stage{
		ID:          types.NewID(),
		Name:        def.Name,
		Description: def.Description,
	}

	names := newNameScope(parent)
	names.priors = priors
	vars, err := l.buildVariables(def.State, st.ID, names)
	if err != nil {
		return nil, nil, err
	}
	st.State = vars

	l.jobs = append(l.jobs, wireJob{
		names:   names,
		inputs:  def.Inputs,
		outputs: def.Outputs,
		assign: func(in, out []plan.Mapping) {
			st.InputMappings = in
			st.OutputMappings = out
		},
	})

	var priorNames []*nameScope
	for i := range def.Steps {
		step, stepNames, err := l.buildStep(&def.Steps[i], names, priorNames)
		if err != nil {
			return nil, nil, err
		}
		st.Steps = append(st.Steps, step)
		priorNames = append(priorNames, stepNames)
	}
	return st, names, nil
}

func (l *loader) buildStep(def *stepDef, parent *nameScope, priors []*nameScope) (*plan.Step, *nameScope, error) {
	step := &plan.Step{
		ID:          types.NewID(),
		Name:        def.Name,
		Description: def.Description,
		ToolID:      def.Tool,
		Status:      plan.StepStatusUnresolved,
	}

	switch {
	case def.Type != "":
		step.Type = plan.StepType(def.Type)
		if !step.Type.IsValid() {
			return nil, nil, types.NewError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("step %q has unknown type %q", def.Name, def.Type))
		}
	case len(def.Substeps) > 0:
		step.Type = plan.StepTypeComposite
	default:
		step.Type = plan.StepTypeAtomic
	}
	if step.Type == plan.StepTypeComposite && def.Tool != "" {
		return nil, nil, types.NewError(types.MISSION_PARSE_FAILED,
			fmt.Sprintf("composite step %q cannot name a tool", def.Name))
	}

	names := newNameScope(parent)
	names.priors = priors
	vars, err := l.buildVariables(def.State, step.ID, names)
	if err != nil {
		return nil, nil, err
	}
	step.State = vars

	l.jobs = append(l.jobs, wireJob{
		names:   names,
		inputs:  def.Inputs,
		outputs: def.Outputs,
		spec:    l.lookupSpec(def),
		assign: func(in, out []plan.Mapping) {
			step.InputMappings = in
			step.OutputMappings = out
		},
	})

	var priorNames []*nameScope
	for i := range def.Substeps {
		sub, subNames, err := l.buildStep(&def.Substeps[i], names, priorNames)
		if err != nil {
			return nil, nil, err
		}
		step.Substeps = append(step.Substeps, sub)
		priorNames = append(priorNames, subNames)
	}
	return step, names, nil
}

// lookupSpec fetches the step's tool spec when a registry is available.
// An unknown tool is not a parse error; validation reports it later with
// the full mission context.
func (l *loader) lookupSpec(def *stepDef) *tool.Spec {
	if l.registry == nil || def.Tool == "" {
		return nil
	}
	spec, err := l.registry.Get(def.Tool)
	if err != nil {
		return nil
	}
	return &spec
}

// wire runs pass two: every deferred mapping is resolved against the name
// tables and assigned back to its scope.
func (l *loader) wire() error {
	for _, job := range l.jobs {
		inputs, err := l.buildMappings(job.inputs, job.names, job.spec)
		if err != nil {
			return err
		}
		outputs, err := l.buildMappings(job.outputs, job.names, job.spec)
		if err != nil {
			return err
		}
		job.assign(inputs, outputs)
	}
	return nil
}

func (l *loader) buildMappings(defs []mappingDef, names *nameScope, spec *tool.Spec) ([]plan.Mapping, error) {
	var out []plan.Mapping
	for _, d := range defs {
		m, err := l.buildMapping(d, names, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (l *loader) buildMapping(def mappingDef, names *nameScope, spec *tool.Spec) (plan.Mapping, error) {
	m := plan.Mapping{
		IsParentOutput: def.ParentOutput,
		Selector:       def.Selector,
	}

	if def.Operation != "" {
		m.Operation = plan.MappingOperation(def.Operation)
		if !m.Operation.IsValid() {
			return plan.Mapping{}, types.NewError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("mapping has unknown operation %q", def.Operation))
		}
	}

	if def.Source != "" {
		id, ok := names.resolve(def.Source)
		if !ok {
			return plan.Mapping{}, types.NewError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("mapping references unknown variable %q", def.Source))
		}
		m.SourceID = id
	}

	switch {
	case def.Parameter != "" && def.Variable != "":
		return plan.Mapping{}, types.NewError(types.MISSION_PARSE_FAILED,
			"mapping cannot target both a parameter and a variable")

	case def.Parameter != "":
		required := def.Required
		var paramSchema schema.Schema
		if spec != nil {
			if p := spec.Input(def.Parameter); p != nil {
				paramSchema = p.Schema
				required = required || p.Required
			}
		}
		m.Target = plan.NewParameterTarget(def.Parameter, paramSchema, required)

	case def.Variable != "":
		id, ok := names.resolve(def.Variable)
		if !ok {
			return plan.Mapping{}, types.NewError(types.MISSION_PARSE_FAILED,
				fmt.Sprintf("mapping targets unknown variable %q", def.Variable))
		}
		m.Target = plan.NewVariableTarget(id)

	default:
		return plan.Mapping{}, types.NewError(types.MISSION_PARSE_FAILED,
			"mapping has no target: set parameter or variable")
	}

	return m, nil
}
