package cellular

import (
	"fmt"
	"sort"
)

// Registry maps cell states to reaction strategies. New states are added by
// registering a strategy; existing strategies are never touched.
// A registry is not safe for concurrent registration; build it before use and
// share it read-only afterwards.
type Registry struct {
	strategies map[CellState]ReactionStrategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[CellState]ReactionStrategy),
	}
}

// DefaultRegistry returns a new registry holding the built-in Healthy and
// Cancerous strategies.
func DefaultRegistry() *Registry {
	return NewRegistry().
		WithStrategy(Healthy, HealthyReaction{}).
		WithStrategy(Cancerous, CancerousReaction{})
}

// Register binds a strategy to a state. It fails if the state is empty or
// already registered, and with a NotImplementedError if strategy is nil.
func (r *Registry) Register(state CellState, strategy ReactionStrategy) error {
	if state == "" {
		return fmt.Errorf("cannot register strategy: state name is required")
	}
	if strategy == nil {
		return fmt.Errorf("cannot register state %s: %w", state, &NotImplementedError{Variant: string(state) + "Reaction"})
	}
	if _, exists := r.strategies[state]; exists {
		return fmt.Errorf("cannot register state %s: strategy already registered", state)
	}
	r.strategies[state] = strategy
	return nil
}

// WithStrategy binds a strategy to a state, replacing any previous binding,
// and returns the registry for method chaining. It panics with a
// NotImplementedError if strategy is nil.
func (r *Registry) WithStrategy(state CellState, strategy ReactionStrategy) *Registry {
	if strategy == nil {
		panic(&NotImplementedError{Variant: string(state) + "Reaction"})
	}
	r.strategies[state] = strategy
	return r
}

// Resolve returns the strategy bound to state, or an UnknownReactionKindError.
func (r *Registry) Resolve(state CellState) (ReactionStrategy, error) {
	strategy, ok := r.strategies[state]
	if !ok || strategy == nil {
		return nil, &UnknownReactionKindError{State: state}
	}
	return strategy, nil
}

// Has reports whether state has a registered strategy.
func (r *Registry) Has(state CellState) bool {
	_, ok := r.strategies[state]
	return ok
}

// States returns the registered states in lexical order.
func (r *Registry) States() []CellState {
	states := make([]CellState, 0, len(r.strategies))
	for s := range r.strategies {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}
