package cellular

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func validConfig() TissueConfig {
	return TissueConfig{
		Name:   "test_tissue",
		Width:  4,
		Height: 3,
		Strategies: []StrategyConfig{
			{State: "Quiescent", Kind: KindConstant, Yield: intPtr(1)},
			{State: "Hypoxic", Kind: KindTable, Fallback: 0, Rules: []RuleConfig{
				{When: map[string]bool{"glucose": true}, Yield: 2},
			}},
		},
		Cells: []PlacementConfig{
			{X: 0, Y: 0, State: "Healthy"},
			{X: 3, Y: 2, State: "Quiescent"},
			{X: 1, Y: 1},
		},
		Supply: SupplyConfig{
			Regions: []RegionConfig{{X0: 0, Y0: 0, X1: 1, Y1: 2, Substrates: map[string]bool{"glucose": true}}},
		},
	}
}

func TestValidateTissueConfig_ValidConfig(t *testing.T) {
	if err := ValidateTissueConfig(validConfig()); err != nil {
		t.Fatalf("expected no validation error, got: %v", err)
	}
}

func TestValidateTissueConfig_Issues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TissueConfig)
		want   string
	}{
		{"missing name", func(c *TissueConfig) { c.Name = "" }, "tissue name is required"},
		{"zero width", func(c *TissueConfig) { c.Width = 0 }, "dimensions must be positive"},
		{"oversized tissue", func(c *TissueConfig) { c.Width, c.Height = 1<<30, 1<<30 }, "must not exceed 1024 per side"},
		{"one side too long", func(c *TissueConfig) { c.Height = MaxTissueSide + 1 }, "must not exceed"},
		{"strategy without state", func(c *TissueConfig) { c.Strategies[0].State = "" }, "state is required"},
		{"built-in state redefined", func(c *TissueConfig) { c.Strategies[0].State = "Healthy" }, "already registered"},
		{"duplicate strategy", func(c *TissueConfig) { c.Strategies[1].State = "Quiescent" }, "already registered"},
		{"unknown kind", func(c *TissueConfig) { c.Strategies[0].Kind = "photosynthesis" }, "unknown kind"},
		{"constant without yield", func(c *TissueConfig) { c.Strategies[0].Yield = nil }, "requires a yield"},
		{"negative constant", func(c *TissueConfig) { c.Strategies[0].Yield = intPtr(-1) }, "must not be negative"},
		{"table without rules", func(c *TissueConfig) { c.Strategies[1].Rules = nil }, "at least one rule"},
		{"rule without conditions", func(c *TissueConfig) { c.Strategies[1].Rules[0].When = nil }, "has no conditions"},
		{"negative fallback", func(c *TissueConfig) { c.Strategies[1].Fallback = -2 }, "fallback must not be negative"},
		{"cell out of bounds", func(c *TissueConfig) { c.Cells[0].X = 4 }, "out of bounds"},
		{"cell overlap", func(c *TissueConfig) { c.Cells[2] = PlacementConfig{X: 0, Y: 0} }, "already occupied"},
		{"cell unknown state", func(c *TissueConfig) { c.Cells[1].State = "Necrotic" }, "unknown state 'Necrotic'"},
		{"region unordered", func(c *TissueConfig) { c.Supply.Regions[0].X0 = 2 }, "corners must be ordered"},
		{"region outside", func(c *TissueConfig) { c.Supply.Regions[0].Y1 = 3 }, "supply region at index 0: out of bounds"},
		{"notify without notifiers", func(c *TissueConfig) { c.Notify.Enabled = true }, "no notifiers listed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := ValidateTissueConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidateTissueConfig_CollectsAllIssues(t *testing.T) {
	cfg := TissueConfig{Width: -1, Height: 1}
	err := ValidateTissueConfig(cfg)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Issues) != 2 {
		t.Errorf("expected 2 issues, got %d: %v", len(validationErr.Issues), validationErr.Issues)
	}
	if !strings.HasPrefix(err.Error(), "tissue config validation errors: ") {
		t.Errorf("unexpected message: %v", err)
	}
}
