package cellular

import "fmt"

// Cell binds a biological state to its reaction strategy.
// The strategy always matches the state: both are set together at
// construction and by SetState.
type Cell struct {
	registry *Registry
	state    CellState
	strategy ReactionStrategy
}

// NewCell creates a cell in the given state. An empty state means
// DefaultState and a nil registry means DefaultRegistry().
func NewCell(registry *Registry, state CellState) (*Cell, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	c := &Cell{registry: registry}
	if err := c.SetState(state); err != nil {
		return nil, err
	}
	return c, nil
}

// SetState moves the cell to a new state and re-resolves its strategy.
// On failure the cell keeps its previous state and strategy.
func (c *Cell) SetState(state CellState) error {
	if state == "" {
		state = DefaultState
	}
	strategy, err := c.registry.Resolve(state)
	if err != nil {
		return fmt.Errorf("set cell state: %w", err)
	}
	c.state = state
	c.strategy = strategy
	return nil
}

// React runs one reaction step with the bound strategy.
func (c *Cell) React(input ReactionInput) EnergyYield {
	return c.strategy.Process(input)
}

func (c *Cell) State() CellState {
	return c.state
}

func (c *Cell) Strategy() ReactionStrategy {
	return c.strategy
}

func (c *Cell) String() string {
	return fmt.Sprintf("%s (%s)", c.state, c.strategy.Kind())
}
