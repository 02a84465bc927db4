package sweep

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/BielJM1/MRTAOptima/internal/sim"
)

// RunRecord is the outcome of one simulation within a sweep.
type RunRecord struct {
	SweepID        string
	Combo          string
	Seed           int64
	Status         sim.Status
	Ticks          int
	UtilityPercent float64
	LeadTime       float64
	Distance       float64
	WorkDone       int
}

// ComboStats aggregates a combination's runs across the seed range.
type ComboStats struct {
	Combo     string
	Runs      int
	ForcedEnd int
	Ticks     Stats
	Utility   Stats
	LeadTime  Stats
	Distance  Stats
}

// Outcome is the result of executing a whole plan.
type Outcome struct {
	SweepID string
	Records []RunRecord
	Stats   []ComboStats
}

// Store persists sweep outcomes. A nil store keeps everything in memory.
type Store interface {
	CreateSweep(ctx context.Context, id, label string, createdAt time.Time) error
	RecordRun(ctx context.Context, rec RunRecord) error
}

// Runner executes plans sequentially, one simulation at a time.
type Runner struct {
	store  Store
	logger *log.Logger
}

func NewRunner(store Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{store: store, logger: logger}
}

// Run executes every combination of the plan over every seed. The sweep is
// registered in the store before the first run; each completed run is
// persisted as it finishes so a cancelled sweep keeps its partial results.
func (r *Runner) Run(ctx context.Context, label string, plan Plan) (*Outcome, error) {
	if plan.Runs() == 0 {
		return nil, fmt.Errorf("plan has no runs")
	}

	id := uuid.NewString()
	if r.store != nil {
		if err := r.store.CreateSweep(ctx, id, label, time.Now()); err != nil {
			return nil, fmt.Errorf("register sweep: %w", err)
		}
	}
	r.logger.Printf("sweep %s: %d combinations x %d seeds", id, len(plan.Combos), len(plan.Seeds))

	// Individual runs are silent; the runner reports per combination.
	simLog := log.New(io.Discard, "", 0)

	out := &Outcome{SweepID: id, Records: make([]RunRecord, 0, plan.Runs())}
	for _, combo := range plan.Combos {
		cs := ComboStats{Combo: combo.Label}
		var ticks, utility, lead, dist []float64
		for _, seed := range plan.Seeds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			params := combo.Params
			params.Seed = seed
			params.Verbose = false
			ctrl, err := sim.New(params, simLog)
			if err != nil {
				return nil, fmt.Errorf("combination %q seed %d: %w", combo.Label, seed, err)
			}
			res := ctrl.Run()

			rec := RunRecord{
				SweepID:        id,
				Combo:          combo.Label,
				Seed:           seed,
				Status:         res.Status,
				Ticks:          res.Ticks,
				UtilityPercent: res.MeanUtilityPercent,
				LeadTime:       res.MeanLeadTime,
				Distance:       res.MeanDistance,
				WorkDone:       res.WorkDone,
			}
			if r.store != nil {
				if err := r.store.RecordRun(ctx, rec); err != nil {
					return nil, fmt.Errorf("record run: %w", err)
				}
			}
			out.Records = append(out.Records, rec)

			cs.Runs++
			if res.Status == sim.StatusUnreasonableTime {
				cs.ForcedEnd++
			}
			ticks = append(ticks, float64(res.Ticks))
			utility = append(utility, res.MeanUtilityPercent)
			lead = append(lead, res.MeanLeadTime)
			dist = append(dist, res.MeanDistance)
		}
		cs.Ticks = newStats(ticks)
		cs.Utility = newStats(utility)
		cs.LeadTime = newStats(lead)
		cs.Distance = newStats(dist)
		out.Stats = append(out.Stats, cs)
		r.logger.Printf("sweep %s: %s done (utility %.2f%%, %d/%d forced)",
			id, combo.Label, cs.Utility.Mean, cs.ForcedEnd, cs.Runs)
	}
	return out, nil
}
