package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteRunsCSV writes one row per run, semicolon separated.
func WriteRunsCSV(w io.Writer, records []RunRecord) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	header := []string{"combo", "seed", "status", "ticks", "utility_pct", "lead_time", "distance", "work_done"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Combo,
			strconv.FormatInt(r.Seed, 10),
			string(r.Status),
			strconv.Itoa(r.Ticks),
			strconv.FormatFloat(r.UtilityPercent, 'f', 4, 64),
			strconv.FormatFloat(r.LeadTime, 'f', 4, 64),
			strconv.FormatFloat(r.Distance, 'f', 4, 64),
			strconv.Itoa(r.WorkDone),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatsCSV writes the per-combination aggregates, semicolon separated.
func WriteStatsCSV(w io.Writer, stats []ComboStats) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	header := []string{
		"combo", "runs", "forced_end",
		"ticks_mean", "ticks_std",
		"utility_mean", "utility_std",
		"lead_time_mean", "lead_time_std",
		"distance_mean", "distance_std",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range stats {
		row := []string{
			s.Combo,
			strconv.Itoa(s.Runs),
			strconv.Itoa(s.ForcedEnd),
			strconv.FormatFloat(s.Ticks.Mean, 'f', 4, 64),
			strconv.FormatFloat(s.Ticks.Std, 'f', 4, 64),
			strconv.FormatFloat(s.Utility.Mean, 'f', 4, 64),
			strconv.FormatFloat(s.Utility.Std, 'f', 4, 64),
			strconv.FormatFloat(s.LeadTime.Mean, 'f', 4, 64),
			strconv.FormatFloat(s.LeadTime.Std, 'f', 4, 64),
			strconv.FormatFloat(s.Distance.Mean, 'f', 4, 64),
			strconv.FormatFloat(s.Distance.Std, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
