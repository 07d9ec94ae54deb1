package mission

import (
	"fmt"
	"strings"

	"github.com/cliff-rosen/jam-bot-sub001/internal/plan"
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
	"github.com/cliff-rosen/jam-bot-sub001/internal/tool"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// ValidationIssue is one problem found in a mission definition. Node names
// the scope the problem lives in; Message is human-readable.
type ValidationIssue struct {
	Node    string `json:"node"`
	Message string `json:"message"`
}

func (i ValidationIssue) String() string {
	if i.Node == "" {
		return i.Message
	}
	return i.Node + ": " + i.Message
}

// ValidateMission checks a mission's structural health: the workflow must
// index cleanly, composite steps must decompose into at least two children,
// atomic steps must name registered tools, bound input mappings must draw
// from variables actually visible at their scope with schemas the parameter
// accepts, and output mappings must land in existing variables. The
// registry is optional; without one, tool existence and parameter schemas
// are not checked.
func ValidateMission(m *Mission, registry tool.Registry) []ValidationIssue {
	if m == nil {
		return []ValidationIssue{{Message: "mission is nil"}}
	}

	var issues []ValidationIssue
	if m.Goal == "" {
		issues = append(issues, ValidationIssue{Message: "mission has no goal"})
	}
	if m.Workflow == nil {
		issues = append(issues, ValidationIssue{Message: "mission has no workflow"})
		return issues
	}

	idx, err := plan.BuildIndex(m.Workflow)
	if err != nil {
		issues = append(issues, ValidationIssue{Node: m.Workflow.Name, Message: err.Error()})
		return issues
	}

	v := &validator{idx: idx, registry: registry}
	v.checkScopeMappings(m.Workflow.Name, m.Workflow.OutputMappings)
	for _, stage := range m.Workflow.Stages {
		v.checkScopeMappings(stage.Name, stage.OutputMappings)
		for _, step := range stage.Steps {
			v.checkStep(step)
		}
	}
	return append(issues, v.issues...)
}

// Validate runs ValidateMission and folds any issues into a single
// MISSION_VALIDATION_FAILED error.
func Validate(m *Mission, registry tool.Registry) error {
	issues := ValidateMission(m, registry)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return types.NewError(types.MISSION_VALIDATION_FAILED,
		fmt.Sprintf("mission failed validation: %s", strings.Join(lines, "; ")))
}

type validator struct {
	idx      *plan.Index
	registry tool.Registry
	issues   []ValidationIssue
}

func (v *validator) problem(node, format string, args ...any) {
	v.issues = append(v.issues, ValidationIssue{Node: node, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) checkStep(step *plan.Step) {
	switch step.Type {
	case plan.StepTypeComposite:
		if len(step.Substeps) < 2 {
			v.problem(step.Name, "composite step must decompose into at least two substeps, has %d", len(step.Substeps))
		}
		if step.ToolID != "" {
			v.problem(step.Name, "composite step cannot name a tool")
		}
	case plan.StepTypeAtomic:
		if len(step.Substeps) > 0 {
			v.problem(step.Name, "atomic step cannot have substeps")
		}
		v.checkTool(step)
	default:
		v.problem(step.Name, "unknown step type %q", step.Type)
	}

	v.checkInputMappings(step)
	v.checkScopeMappings(step.Name, step.OutputMappings)

	for _, sub := range step.Substeps {
		v.checkStep(sub)
	}
}

func (v *validator) checkTool(step *plan.Step) {
	if v.registry == nil || step.ToolID == "" {
		return
	}
	if _, err := v.registry.Get(step.ToolID); err != nil {
		v.problem(step.Name, "tool %q is not registered", step.ToolID)
	}
}

// checkInputMappings verifies that every bound parameter mapping draws from
// a variable visible at the step's scope and that the variable's schema
// satisfies the parameter's declared schema.
func (v *validator) checkInputMappings(step *plan.Step) {
	if len(step.InputMappings) == 0 {
		return
	}

	visible, err := plan.AvailableInputs(v.idx, step.ID)
	if err != nil {
		v.problem(step.Name, "cannot compute available inputs: %s", err.Error())
		return
	}
	visibleByID := make(map[types.ID]*plan.Variable, len(visible))
	for _, variable := range visible {
		visibleByID[variable.ID] = variable
	}

	for _, m := range step.InputMappings {
		if !m.Target.IsParameter() {
			continue
		}
		if !m.IsBound() {
			continue
		}

		source, ok := visibleByID[m.SourceID]
		if !ok {
			if v.idx.Variable(m.SourceID) == nil {
				v.problem(step.Name, "parameter %q is bound to a variable that does not exist", m.Target.Parameter)
			} else {
				v.problem(step.Name, "parameter %q is bound to a variable not visible at this scope", m.Target.Parameter)
			}
			continue
		}

		if m.Target.Schema.Type.IsValid() {
			result := schema.Match(source.Schema, m.Target.Schema)
			if !result.IsMatch {
				v.problem(step.Name, "variable %q does not satisfy parameter %q: %s",
					source.Name, m.Target.Parameter, result.Reason)
			}
		}
	}
}

// checkScopeMappings verifies that variable-target output mappings land in
// variables the tree actually owns.
func (v *validator) checkScopeMappings(node string, mappings []plan.Mapping) {
	for _, m := range mappings {
		if m.Target.IsVariable() && v.idx.Variable(m.Target.VariableID) == nil {
			v.problem(node, "output mapping targets a variable that does not exist")
		}
		if !m.SourceID.IsZero() && v.idx.Variable(m.SourceID) == nil {
			v.problem(node, "output mapping draws from a variable that does not exist")
		}
	}
}
