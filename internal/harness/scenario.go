package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/folio/internal/config"
	"github.com/roach88/folio/internal/ir"
)

// Scenario is a scripted sequence of history operations with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config overrides the history defaults for this run.
	Config *config.HistoryConfig `yaml:"config,omitempty"`

	// Steps run in order against one history manager.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the manager after the last step.
	Assertions *Assertions `yaml:"assertions,omitempty"`
}

// Step operations.
const (
	OpSave       = "save"
	OpUndo       = "undo"
	OpRedo       = "redo"
	OpClear      = "clear"
	OpAdvance    = "advance"     // move the manual clock forward by Duration
	OpEndRestore = "end_restore" // coordinator handshake
	OpRelease    = "release"     // run pending fallback guard releases
)

var knownOps = []string{OpSave, OpUndo, OpRedo, OpClear, OpAdvance, OpEndRestore, OpRelease}

var knownOutcomes = []string{"accepted", "restoring", "duplicate", "throttled"}

// Step is one operation in a scenario.
type Step struct {
	Op string `yaml:"op"`

	// Action and Description are the save's action tag and label.
	Action      string `yaml:"action,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Elements is the document passed to save.
	Elements []ir.Element `yaml:"elements,omitempty"`

	// Duration is the clock advance for advance steps ("300ms").
	Duration string `yaml:"duration,omitempty"`

	// ExpectOutcome is the expected save outcome.
	ExpectOutcome string `yaml:"expect_outcome,omitempty"`

	// Expect checks what undo or redo returned.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Restore results an ExpectClause can name.
const (
	ResultSnapshot = "snapshot" // a non-empty snapshot
	ResultEmpty    = "empty"    // the empty pre-history snapshot
	ResultNone     = "none"     // nothing to undo or redo
)

// ExpectClause specifies what an undo or redo must return.
type ExpectClause struct {
	Result string `yaml:"result"`

	// Elements, when set, must be fingerprint-equal to the returned snapshot.
	Elements []ir.Element `yaml:"elements,omitempty"`
}

// Assertions check the manager's final state. Nil fields are not checked.
type Assertions struct {
	Size         *int           `yaml:"size,omitempty"`
	CurrentIndex *int           `yaml:"current_index,omitempty"`
	CanUndo      *bool          `yaml:"can_undo,omitempty"`
	CanRedo      *bool          `yaml:"can_redo,omitempty"`
	Restoring    *bool          `yaml:"restoring,omitempty"`
	Outcomes     map[string]int `yaml:"outcomes,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Config != nil {
		if _, err := s.Config.ManagerOptions(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	if s.Assertions != nil {
		for outcome := range s.Assertions.Outcomes {
			if !slices.Contains(knownOutcomes, outcome) && outcome != OutcomeRestored && outcome != OutcomeNone {
				return fmt.Errorf("assertions.outcomes: unknown outcome %q", outcome)
			}
		}
	}
	return nil
}

func validateStep(i int, step *Step) error {
	if !slices.Contains(knownOps, step.Op) {
		return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
	}

	switch step.Op {
	case OpSave:
		if step.Action == "" {
			return fmt.Errorf("steps[%d]: action is required for save", i)
		}
		if step.ExpectOutcome != "" && !slices.Contains(knownOutcomes, step.ExpectOutcome) {
			return fmt.Errorf("steps[%d]: unknown expect_outcome %q", i, step.ExpectOutcome)
		}
	case OpAdvance:
		d, err := time.ParseDuration(step.Duration)
		if err != nil {
			return fmt.Errorf("steps[%d]: advance needs a duration: %w", i, err)
		}
		if d < 0 {
			return fmt.Errorf("steps[%d]: duration must be non-negative", i)
		}
	}

	if step.Op != OpSave && (step.Action != "" || len(step.Elements) > 0 || step.ExpectOutcome != "") {
		return fmt.Errorf("steps[%d]: action, elements and expect_outcome apply to save only", i)
	}

	if step.Expect != nil {
		if step.Op != OpUndo && step.Op != OpRedo {
			return fmt.Errorf("steps[%d]: expect applies to undo and redo only", i)
		}
		switch step.Expect.Result {
		case ResultSnapshot:
		case ResultEmpty, ResultNone:
			if len(step.Expect.Elements) > 0 {
				return fmt.Errorf("steps[%d].expect: elements require result %q", i, ResultSnapshot)
			}
		default:
			return fmt.Errorf("steps[%d].expect: result must be snapshot, empty or none", i)
		}
	}
	return nil
}
