package dbscan

// Strategy selects how ε-neighborhoods are computed.
type Strategy string

const (
	StrategyAuto        Strategy = "auto"
	StrategyOnDemand    Strategy = "on_demand"
	StrategyPrecomputed Strategy = "precomputed"
)

// selectStrategy resolves StrategyAuto into a concrete strategy. A single
// worker gains nothing from computing every neighborhood up front, so auto
// only precomputes when there are goroutines to spread the work across.
func selectStrategy(cfg Config) Strategy {
	if cfg.Strategy != StrategyAuto {
		return cfg.Strategy
	}
	if cfg.Workers > 1 {
		return StrategyPrecomputed
	}
	return StrategyOnDemand
}
