package cellular

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid tissue config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "tissue config validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) Addf(format string, args ...any) {
	e.Add(fmt.Sprintf(format, args...))
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

var validKinds = map[string]bool{
	KindHealthy:   true,
	KindCancerous: true,
	KindConstant:  true,
	KindTable:     true,
}

// ValidateTissueConfig performs comprehensive validation of a TissueConfig.
// Built-in states are always known; configured strategies add to them.
func ValidateTissueConfig(cfg TissueConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("tissue name is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		err.Addf("tissue dimensions must be positive, got %dx%d", cfg.Width, cfg.Height)
	} else if cfg.Width > MaxTissueSide || cfg.Height > MaxTissueSide {
		err.Addf("tissue dimensions must not exceed %d per side, got %dx%d", MaxTissueSide, cfg.Width, cfg.Height)
	}

	known := make(map[string]bool)
	for _, s := range DefaultRegistry().States() {
		known[string(s)] = true
	}

	for i, sc := range cfg.Strategies {
		prefix := fmt.Sprintf("strategy at index %d", i)
		if sc.State != "" {
			prefix = "strategy '" + sc.State + "'"
		}

		if sc.State == "" {
			err.Add(prefix + ": state is required")
		} else if known[sc.State] {
			err.Add(prefix + ": state already registered")
		} else {
			known[sc.State] = true
		}

		if !validKinds[sc.Kind] {
			err.Add(prefix + ": unknown kind '" + sc.Kind + "' (expected healthy, cancerous, constant or table)")
			continue
		}

		switch sc.Kind {
		case KindConstant:
			if sc.Yield == nil {
				err.Add(prefix + ": constant strategy requires a yield")
			} else if *sc.Yield < 0 {
				err.Add(prefix + ": yield must not be negative")
			}
		case KindTable:
			if len(sc.Rules) == 0 {
				err.Add(prefix + ": table strategy requires at least one rule")
			}
			for j, rule := range sc.Rules {
				if len(rule.When) == 0 {
					err.Addf("%s: rule %d has no conditions", prefix, j)
				}
				if rule.Yield < 0 {
					err.Addf("%s: rule %d yield must not be negative", prefix, j)
				}
			}
			if sc.Fallback < 0 {
				err.Add(prefix + ": fallback must not be negative")
			}
		}
	}

	occupied := make(map[[2]int]bool)
	for i, pc := range cfg.Cells {
		if pc.X < 0 || pc.X >= cfg.Width || pc.Y < 0 || pc.Y >= cfg.Height {
			err.Addf("cell at index %d: position (%d,%d) out of bounds", i, pc.X, pc.Y)
		}
		pos := [2]int{pc.X, pc.Y}
		if occupied[pos] {
			err.Addf("cell at index %d: position (%d,%d) already occupied", i, pc.X, pc.Y)
		}
		occupied[pos] = true
		if pc.State != "" && !known[pc.State] {
			err.Addf("cell at index %d: unknown state '%s'", i, pc.State)
		}
	}

	for i, rc := range cfg.Supply.Regions {
		if rc.X0 > rc.X1 || rc.Y0 > rc.Y1 {
			err.Addf("supply region at index %d: corners must be ordered", i)
		}
		if rc.X0 < 0 || rc.Y0 < 0 || rc.X1 >= cfg.Width || rc.Y1 >= cfg.Height {
			err.Addf("supply region at index %d: out of bounds", i)
		}
	}

	if cfg.Notify.Enabled && len(cfg.Notify.Notifiers) == 0 {
		err.Add("notify: enabled but no notifiers listed")
	}

	if err.HasIssues() {
		return err
	}
	return nil
}
