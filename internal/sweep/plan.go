// Package sweep expands a configuration cross product into simulation runs,
// executes them over a seed range and aggregates the outcomes.
package sweep

import (
	"fmt"
	"strings"

	"github.com/BielJM1/MRTAOptima/internal/config"
	"github.com/BielJM1/MRTAOptima/internal/sim"
	"github.com/BielJM1/MRTAOptima/internal/stimulus"
)

// Combo is one fully resolved configuration of the sweep; its label is the
// stable key results are grouped under.
type Combo struct {
	Label  string
	Params sim.Params
}

// Plan is the expanded sweep: every combination, run once per seed.
type Plan struct {
	Seeds  []int64
	Combos []Combo
}

// Runs returns the total number of simulations the plan will execute.
func (p Plan) Runs() int {
	return len(p.Seeds) * len(p.Combos)
}

// NewPlan expands the sweep section of the configuration against the base
// run parameters. Dimensions left empty collapse to the base setting; a
// dimension that enables a modifier must also list its variants.
func NewPlan(base sim.Params, cfg config.Sweep) (Plan, error) {
	if cfg.SeedTo < cfg.SeedFrom {
		return Plan{}, fmt.Errorf("seed range [%d, %d] is empty", cfg.SeedFrom, cfg.SeedTo)
	}
	seeds := make([]int64, 0, cfg.SeedTo-cfg.SeedFrom+1)
	for s := cfg.SeedFrom; s <= cfg.SeedTo; s++ {
		seeds = append(seeds, s)
	}

	inertias := cfg.Inertia
	if len(inertias) == 0 {
		inertias = []bool{base.Inertia != nil}
	}
	interferences := cfg.Interference
	if len(interferences) == 0 {
		interferences = []bool{base.Interference != nil}
	}
	redirects := cfg.Redirect
	if len(redirects) == 0 {
		redirects = []bool{base.AllowRedirect}
	}

	if hasTrue(inertias) && len(cfg.InertiaK) == 0 {
		return Plan{}, fmt.Errorf("sweep enables inertia but lists no inertia_k values")
	}
	if hasTrue(interferences) {
		if len(cfg.InterferenceVariants) == 0 {
			return Plan{}, fmt.Errorf("sweep enables interference but lists no interference_variants")
		}
		if len(cfg.Operators) == 0 {
			return Plan{}, fmt.Errorf("sweep enables interference but lists no operator_variants")
		}
	}

	var combos []Combo
	for _, inertiaOn := range inertias {
		ks := []float64{0}
		if inertiaOn {
			ks = cfg.InertiaK
		}
		for _, k := range ks {
			for _, interferenceOn := range interferences {
				for _, ops := range operatorChoices(interferenceOn, inertiaOn, cfg.Operators) {
					for _, iv := range interferenceChoices(interferenceOn, cfg.InterferenceVariants) {
						for _, redirect := range redirects {
							p := base
							p.AllowRedirect = redirect
							p.Inertia = nil
							if inertiaOn {
								p.Inertia = &sim.InertiaParams{K: k}
							}
							p.Interference = iv
							p.Operators = ops

							if p.Inertia != nil && p.Operators.Secondary.Kind == stimulus.KindNone {
								p.Operators.Secondary = stimulus.Operator{Kind: stimulus.KindMax}
							}
							if err := p.Validate(); err != nil {
								return Plan{}, fmt.Errorf("sweep combination invalid: %w", err)
							}
							combos = append(combos, Combo{Label: comboLabel(p), Params: p})
						}
					}
				}
			}
		}
	}
	return Plan{Seeds: seeds, Combos: combos}, nil
}

func hasTrue(values []bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}

// operatorChoices resolves the aggregation pairs for one (interference,
// inertia) setting. Without interference there is nothing for a primary
// operator to combine, so the listed variants only apply when interference is
// on; inertia alone always aggregates with max.
func operatorChoices(interferenceOn, inertiaOn bool, variants []config.OperatorVariant) []sim.OperatorPair {
	if !interferenceOn {
		if inertiaOn {
			return []sim.OperatorPair{{Secondary: stimulus.Operator{Kind: stimulus.KindMax}}}
		}
		return []sim.OperatorPair{{}}
	}

	var pairs []sim.OperatorPair
	for _, v := range variants {
		secondary := v.Secondary
		if secondary == "" {
			secondary = string(stimulus.KindMax)
		}
		paramSets := v.Params
		if len(paramSets) == 0 {
			paramSets = [][]float64{nil}
		}
		for _, ps := range paramSets {
			pairs = append(pairs, sim.OperatorPair{
				Primary:   stimulus.Operator{Kind: stimulus.Kind(v.Primary), Params: ps},
				Secondary: stimulus.Operator{Kind: stimulus.Kind(secondary)},
			})
		}
	}
	return pairs
}

func interferenceChoices(interferenceOn bool, variants []config.InterferenceVariant) []*sim.InterferenceParams {
	if !interferenceOn {
		return []*sim.InterferenceParams{nil}
	}
	choices := make([]*sim.InterferenceParams, 0, len(variants))
	for _, v := range variants {
		choices = append(choices, &sim.InterferenceParams{
			Kind:  stimulus.InterferenceKind(v.Kind),
			Gamma: v.Gamma,
			Beta:  v.Beta,
		})
	}
	return choices
}

// comboLabel renders a stable, human-readable key for a combination.
func comboLabel(p sim.Params) string {
	var b strings.Builder
	if p.Inertia != nil {
		fmt.Fprintf(&b, "in=%.2f", p.Inertia.K)
	} else {
		b.WriteString("in=off")
	}
	if p.Interference != nil {
		fmt.Fprintf(&b, " pi=%s g=%.2f b=%.2f", p.Interference.Kind, p.Interference.Gamma, p.Interference.Beta)
	} else {
		b.WriteString(" pi=off")
	}
	if p.Operators.Primary.Kind != stimulus.KindNone {
		fmt.Fprintf(&b, " op0=%s%v", p.Operators.Primary.Kind, p.Operators.Primary.Params)
	}
	if p.Operators.Secondary.Kind != stimulus.KindNone {
		fmt.Fprintf(&b, " op1=%s", p.Operators.Secondary.Kind)
	}
	fmt.Fprintf(&b, " redirect=%t", p.AllowRedirect)
	return b.String()
}
