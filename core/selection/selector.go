// Package selection picks wallet outputs that cover a multi-asset requirement.
package selection

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/utxodex/sdk-go/core/logging"
	"github.com/utxodex/sdk-go/core/types"
)

// Strategy orders the candidates for one asset requirement.
type Strategy int

const (
	// StrategyFewestAssets prefers outputs holding fewer distinct assets,
	// then larger amounts of the asset being covered.
	StrategyFewestAssets Strategy = iota
	// StrategyLargestFirst only looks at the amount of the asset being covered.
	StrategyLargestFirst
)

func (s Strategy) String() string {
	switch s {
	case StrategyFewestAssets:
		return "fewest-assets"
	case StrategyLargestFirst:
		return "largest-first"
	default:
		return "unknown"
	}
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyFewestAssets.String():
		return StrategyFewestAssets, nil
	case StrategyLargestFirst.String():
		return StrategyLargestFirst, nil
	default:
		return 0, errors.Errorf("unknown selection strategy %q", name)
	}
}

// Selector is a configured coin selector. The zero value is not usable; use New.
type Selector struct {
	strategy Strategy
	logger   *zap.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithStrategy overrides the candidate ordering.
func WithStrategy(s Strategy) Option {
	return func(sel *Selector) {
		sel.strategy = s
	}
}

// WithLogger sets the logger used for selection tracing.
func WithLogger(l *zap.Logger) Option {
	return func(sel *Selector) {
		if l != nil {
			sel.logger = l
		}
	}
}

// New builds a selector using StrategyFewestAssets unless overridden.
func New(opts ...Option) *Selector {
	s := &Selector{
		strategy: StrategyFewestAssets,
		logger:   logging.Logger.Named("selection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns alreadyIncluded followed by the outputs picked from pool,
// in pick order, such that their combined value covers required. Outputs in
// excluded, spent outputs and outputs already in alreadyIncluded are never
// picked.
func Select(required types.CurrencyBag, pool, alreadyIncluded []types.UTxO, excluded []types.OutputReference) ([]types.UTxO, error) {
	return New().Select(required, pool, alreadyIncluded, excluded)
}

func (s *Selector) Select(required types.CurrencyBag, pool, alreadyIncluded []types.UTxO, excluded []types.OutputReference) ([]types.UTxO, error) {
	sel := newRunning(alreadyIncluded)
	eligible := s.eligible(pool, sel, excluded)

	for _, need := range required.NonNative() {
		s.cover(sel, eligible, need)
	}
	native := required.Native()
	if native.IsPositive() {
		s.cover(sel, eligible, native)
	}

	if short, ok := sel.total.Covers(required); !ok {
		available := sel.total.Get(short).Amount()
		for _, u := range eligible {
			if !sel.has(u.Ref) {
				available.Add(available, u.Value.Get(short).Amount())
			}
		}
		s.logger.Debug("selection failed",
			zap.String("asset", short.String()),
			zap.Stringer("required", required.Get(short).Amount()),
			zap.Stringer("available", available))
		return nil, errors.WithStack(&types.InsufficientFundsError{
			Asset:     short,
			Required:  required.Get(short).Amount(),
			Available: available,
		})
	}

	s.logger.Debug("selection done",
		zap.String("strategy", s.strategy.String()),
		zap.Int("preselected", sel.seeded),
		zap.Int("selected", len(sel.picked)-sel.seeded),
		zap.Stringer("total", sel.total))
	return sel.picked, nil
}

// eligible drops spent, excluded and pre-selected outputs and duplicates.
func (s *Selector) eligible(pool []types.UTxO, sel *running, excluded []types.OutputReference) []types.UTxO {
	seen := make(map[types.OutputReference]struct{}, len(pool))
	out := make([]types.UTxO, 0, len(pool))
	for _, u := range pool {
		if u.Spent || sel.has(u.Ref) || types.ContainsRef(excluded, u.Ref) {
			continue
		}
		if _, dup := seen[u.Ref]; dup {
			continue
		}
		seen[u.Ref] = struct{}{}
		out = append(out, u)
	}
	return out
}

// cover greedily adds candidates holding need's asset until the running total
// reaches need.
func (s *Selector) cover(sel *running, eligible []types.UTxO, need types.Currency) {
	asset := need.Asset()
	if sel.total.Get(asset).CmpAmount(need.Amount()) >= 0 {
		return
	}
	for _, u := range s.candidates(eligible, asset) {
		if sel.has(u.Ref) {
			continue
		}
		sel.add(u)
		if sel.total.Get(asset).CmpAmount(need.Amount()) >= 0 {
			return
		}
	}
}

// candidates lists outputs holding a positive amount of asset in the
// strategy's order. Remaining ties are broken by output reference.
func (s *Selector) candidates(eligible []types.UTxO, asset types.AssetIdentifier) []types.UTxO {
	out := make([]types.UTxO, 0, len(eligible))
	for _, u := range eligible {
		if u.Value.Has(asset) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if s.strategy == StrategyFewestAssets {
			if da, db := a.Value.DistinctAssets(), b.Value.DistinctAssets(); da != db {
				return da < db
			}
		}
		if c := a.Value.Get(asset).Amount().Cmp(b.Value.Get(asset).Amount()); c != 0 {
			return c > 0
		}
		return a.Ref.Less(b.Ref)
	})
	return out
}

// TotalValue sums the values of utxos.
func TotalValue(utxos []types.UTxO) types.CurrencyBag {
	total := types.NewCurrencyBag()
	for _, u := range utxos {
		total = total.Plus(u.Value)
	}
	return total
}

type running struct {
	seeded int
	picked []types.UTxO
	refs   map[types.OutputReference]struct{}
	total  types.CurrencyBag
}

func newRunning(seed []types.UTxO) *running {
	r := &running{
		refs:  make(map[types.OutputReference]struct{}, len(seed)),
		total: types.NewCurrencyBag(),
	}
	for _, u := range seed {
		if r.has(u.Ref) {
			continue
		}
		r.add(u)
	}
	r.seeded = len(r.picked)
	return r
}

func (r *running) has(ref types.OutputReference) bool {
	_, ok := r.refs[ref]
	return ok
}

func (r *running) add(u types.UTxO) {
	r.picked = append(r.picked, u)
	r.refs[u.Ref] = struct{}{}
	r.total = r.total.Plus(u.Value)
}

// WithHeadroom adds extra native currency to required, e.g. to leave room
// for the transaction fee.
func WithHeadroom(required types.CurrencyBag, headroom *big.Int) types.CurrencyBag {
	if headroom == nil || headroom.Sign() <= 0 {
		return required
	}
	return required.PlusCurrency(types.NativeCurrency(headroom))
}
