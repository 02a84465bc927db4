package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/BielJM1/MRTAOptima/internal/sim"
)

func newWatchCommand() *cobra.Command {
	var seed int64
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a simulation in an interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := cfg.Params()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				params.Seed = seed
			}
			// Tick logging would fight the terminal UI.
			params.Verbose = false

			ctrl, err := sim.New(params, simLogger(false))
			if err != nil {
				return err
			}
			return runDashboard(ctrl, interval)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "override the configured RNG seed")
	cmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "delay between ticks")
	return cmd
}

// runDashboard steps the controller on a ticker and renders each tick. All
// stepping happens inside QueueUpdateDraw callbacks, so the controller is
// only ever touched from the UI goroutine.
func runDashboard(ctrl *sim.Controller, interval time.Duration) error {
	app := tview.NewApplication()

	tasksTable := tview.NewTable().
		SetBorders(false).
		SetSelectable(false, false)
	tasksTable.SetTitle("Tasks (Space pause, F5 step, F10 quit)").SetBorder(true)

	agentsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	agentsView.SetTitle("Agents").SetBorder(true)

	statusView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	statusView.SetTitle("Status").SetBorder(true)

	main := tview.NewFlex().
		AddItem(tasksTable, 0, 3, true).
		AddItem(agentsView, 0, 2, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, true).
		AddItem(statusView, 4, 0, false)

	paused := false
	render := func() {
		snap := ctrl.Snapshot()
		renderTasks(tasksTable, snap)
		agentsView.SetText(renderAgents(snap))
		statusView.SetText(renderStatus(ctrl, snap, paused))
	}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10, tcell.KeyEscape:
			app.Stop()
			return nil
		case tcell.KeyF5:
			ctrl.Step()
			render()
			return nil
		}
		if event.Key() == tcell.KeyRune && event.Rune() == ' ' {
			paused = !paused
			render()
			return nil
		}
		return event
	})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			app.QueueUpdateDraw(func() {
				if paused || ctrl.Status() != sim.StatusInProgress {
					return
				}
				ctrl.Step()
				render()
			})
		}
	}()

	render()
	return app.SetRoot(root, true).Run()
}

func renderTasks(table *tview.Table, snap sim.Snapshot) {
	table.Clear()
	headers := []string{"Task", "Pos", "Effort", "Deadline", "Occ", "Done", "Utility"}
	for i, h := range headers {
		table.SetCell(0, i, tview.NewTableCell(h).SetSelectable(false).SetAttributes(tcell.AttrBold))
	}
	for i, t := range snap.Tasks {
		row := i + 1
		done := "-"
		utility := "-"
		if t.Completed {
			done = fmt.Sprintf("t=%d", t.CompletedAt)
			utility = fmt.Sprintf("%.0f%%", 100*t.AchievedUtility/t.MaxUtility)
		}
		table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d", t.ID)))
		table.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("(%.0f,%.0f)", t.Pos.X, t.Pos.Y)))
		table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d/%d", t.TotalEffort-t.RemainingEffort, t.TotalEffort)))
		table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", t.Deadline)))
		table.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%d", t.Occupancy)))
		table.SetCell(row, 5, tview.NewTableCell(done))
		table.SetCell(row, 6, tview.NewTableCell(utility))
	}
}

func renderAgents(snap sim.Snapshot) string {
	var b strings.Builder
	for _, a := range snap.Agents {
		state := "working"
		if a.Travelling {
			state = fmt.Sprintf("travelling (eta t=%d)", a.ArrivalAt)
		}
		b.WriteString(fmt.Sprintf(
			"agent %-3d pos=(%5.1f,%5.1f) task=%-3d %s\n",
			a.ID, a.Pos.X, a.Pos.Y, a.DestinationTask, state,
		))
		b.WriteString(fmt.Sprintf(
			"  vel=%.1f cap=%d worked=%d travelled=%.1f\n",
			a.Velocity, a.WorkCapacity, a.WorkDone, a.TravelledDistance,
		))
	}
	return b.String()
}

func renderStatus(ctrl *sim.Controller, snap sim.Snapshot, paused bool) string {
	completed := 0
	for _, t := range snap.Tasks {
		if t.Completed {
			completed++
		}
	}
	line := fmt.Sprintf("tick=%d status=%s tasks=%d/%d seed=%d",
		snap.Tick, snap.Status, completed, len(snap.Tasks), ctrl.Params().Seed)
	if paused {
		line += " [paused]"
	}
	if snap.Status != sim.StatusInProgress {
		res := ctrl.Result()
		line += fmt.Sprintf("\nmean utility=%.2f%% lead=%.2f distance=%.2f",
			res.MeanUtilityPercent, res.MeanLeadTime, res.MeanDistance)
	}
	return line
}
