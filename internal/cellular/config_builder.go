package cellular

import "fmt"

// BuildRegistryFromConfig returns the default registry extended with the
// configured strategies.
func BuildRegistryFromConfig(strategies []StrategyConfig) (*Registry, error) {
	registry := DefaultRegistry()
	for _, sc := range strategies {
		strategy, err := buildStrategy(sc)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(CellState(sc.State), strategy); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildStrategy(sc StrategyConfig) (ReactionStrategy, error) {
	switch sc.Kind {
	case KindHealthy:
		return HealthyReaction{}, nil
	case KindCancerous:
		return CancerousReaction{}, nil
	case KindConstant:
		if sc.Yield == nil {
			return nil, fmt.Errorf("strategy %s: constant strategy requires a yield", sc.State)
		}
		return &ConstantReaction{Yield: EnergyYield(*sc.Yield)}, nil
	case KindTable:
		rules := make([]ReactionRule, 0, len(sc.Rules))
		for _, rc := range sc.Rules {
			rules = append(rules, ReactionRule{
				When:  substrateMap(rc.When),
				Yield: EnergyYield(rc.Yield),
			})
		}
		return &TableReaction{Rules: rules, Fallback: EnergyYield(sc.Fallback)}, nil
	default:
		return nil, fmt.Errorf("strategy %s: unknown kind %q", sc.State, sc.Kind)
	}
}

func substrateMap(m map[string]bool) map[Substrate]bool {
	out := make(map[Substrate]bool, len(m))
	for k, v := range m {
		out[Substrate(k)] = v
	}
	return out
}

// BuildSupplyFromConfig turns a SupplyConfig into an InputSupply.
func BuildSupplyFromConfig(cfg SupplyConfig) InputSupply {
	def := NewReactionInput(true, true)
	if cfg.Default != nil {
		def = ReactionInput(substrateMap(cfg.Default))
	}
	if len(cfg.Regions) == 0 {
		return UniformSupply{Input: def}
	}

	regions := make([]Region, 0, len(cfg.Regions))
	for _, rc := range cfg.Regions {
		regions = append(regions, Region{
			X0:    rc.X0,
			Y0:    rc.Y0,
			X1:    rc.X1,
			Y1:    rc.Y1,
			Input: ReactionInput(substrateMap(rc.Substrates)),
		})
	}
	return RegionSupply{Default: def, Regions: regions}
}

// BuildTissueFromConfig validates cfg and builds a populated tissue.
func BuildTissueFromConfig(cfg TissueConfig) (*Tissue, error) {
	if err := ValidateTissueConfig(cfg); err != nil {
		return nil, err
	}

	registry, err := BuildRegistryFromConfig(cfg.Strategies)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	tissue, err := NewTissue(registry, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	tissue.SetName(cfg.Name)
	tissue.SetSupply(BuildSupplyFromConfig(cfg.Supply))
	tissue.SetNotificationConfig(cfg.Notify)

	for _, pc := range cfg.Cells {
		if _, err := tissue.Place(pc.X, pc.Y, CellState(pc.State)); err != nil {
			return nil, fmt.Errorf("placing cell at (%d,%d): %w", pc.X, pc.Y, err)
		}
	}
	return tissue, nil
}
