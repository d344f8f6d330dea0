package cellular

// Strategy kinds accepted in StrategyConfig.Kind.
const (
	KindHealthy   = "healthy"
	KindCancerous = "cancerous"
	KindConstant  = "constant"
	KindTable     = "table"
)

// RuleConfig is one row of a table strategy.
type RuleConfig struct {
	When  map[string]bool `json:"when"`
	Yield int             `json:"yield"`
}

// StrategyConfig declares the reaction strategy of an additional state.
type StrategyConfig struct {
	State       string       `json:"state"`
	Kind        string       `json:"kind"`
	Description string       `json:"description,omitempty"`
	Yield       *int         `json:"yield,omitempty"`
	Rules       []RuleConfig `json:"rules,omitempty"`
	Fallback    int          `json:"fallback,omitempty"`
}

// PlacementConfig puts a cell in the given state at (X, Y).
// An empty State means the default state.
type PlacementConfig struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	State string `json:"state,omitempty"`
}

// RegionConfig overrides the supply inside an inclusive rectangle.
type RegionConfig struct {
	X0         int             `json:"x0"`
	Y0         int             `json:"y0"`
	X1         int             `json:"x1"`
	Y1         int             `json:"y1"`
	Substrates map[string]bool `json:"substrates"`
}

// SupplyConfig describes which substrates reach each position.
// A nil Default means every position gets oxygen and glucose.
type SupplyConfig struct {
	Default map[string]bool `json:"default,omitempty"`
	Regions []RegionConfig  `json:"regions,omitempty"`
}

// TissueConfig is the JSON description of a tissue.
type TissueConfig struct {
	Name       string             `json:"name"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Strategies []StrategyConfig   `json:"strategies,omitempty"`
	Cells      []PlacementConfig  `json:"cells,omitempty"`
	Supply     SupplyConfig       `json:"supply,omitempty"`
	Notify     NotificationConfig `json:"notify,omitempty"`
}
