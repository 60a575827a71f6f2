/*
main.go - studioctl, the studio engine command line

PURPOSE:
  Runs the engine directly against the SQLite database for office use and
  scripting, without the HTTP server.

COMMANDS:
  top         Staff with the most money still owed
  alerts      Double bookings and coverage shortages
  booking     Progress and payment status of one booking
  set-agreed  Set agreed amounts (collapses duplicates)
  seed        Load a demo scenario

OUTPUT:
  Tables by default, JSON with --json.

SEE ALSO:
  - config/config.go: STUDIO_* environment variables
  - reconcile/batch.go: SaveAll used by set-agreed
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/studio-engine/api"
	"github.com/warp/studio-engine/config"
	"github.com/warp/studio-engine/ledger"
	"github.com/warp/studio-engine/paystatus"
	"github.com/warp/studio-engine/progress"
	"github.com/warp/studio-engine/reconcile"
	"github.com/warp/studio-engine/schedule"
	"github.com/warp/studio-engine/store/sqlite"
	"github.com/warp/studio-engine/studio"
)

var (
	dbPath     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "studioctl",
	Short:         "Studio engine CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	rootCmd.AddCommand(topCmd())
	rootCmd.AddCommand(alertsCmd(cfg))
	rootCmd.AddCommand(bookingCmd(cfg))
	rootCmd.AddCommand(setAgreedCmd(cfg))
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func withStore(ctx context.Context, fn func(ctx context.Context, store *sqlite.Store) error) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

// =============================================================================
// COMMANDS
// =============================================================================

func topCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Staff with the highest amounts due",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *sqlite.Store) error {
				snap, err := store.Snapshot(ctx)
				if err != nil {
					return err
				}
				top := ledger.TopN(ledger.StaffSubjects(snap.Staff), ledger.StaffEntries(snap.StaffPayments), n)
				if jsonOutput {
					return printJSON(top)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"#", "Staff", "Agreed", "Paid", "Due"})
				for i, s := range top {
					tw.AppendRow(table.Row{i + 1, s.Name, s.TotalAgreed.StringFixed(2), s.TotalPaid.StringFixed(2), s.TotalDue.StringFixed(2)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", ledger.DefaultTopN, "number of rows")
	return cmd
}

func alertsCmd(cfg *config.Config) *cobra.Command {
	var from string
	var all bool
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Double bookings and coverage shortages",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := schedule.LoadPolicy(cfg.CoverageFile)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, store *sqlite.Store) error {
				snap, err := store.Snapshot(ctx)
				if err != nil {
					return err
				}
				events := snap.Events
				if !all {
					start := studio.Today()
					if from != "" {
						start = studio.NormalizeDate(from)
						if start.IsZero() {
							return fmt.Errorf("--from must be YYYY-MM-DD, got %q", from)
						}
					}
					events = schedule.Upcoming(events, start)
				}
				report := schedule.Detect(events, snap.Assignments, snap.Staff, policy)
				if jsonOutput {
					return printJSON(report)
				}
				if report.Empty() {
					fmt.Println("No schedule problems.")
					return nil
				}

				tw := newTable()
				tw.SetTitle("Double bookings")
				tw.AppendHeader(table.Row{"Date", "Staff", "Events"})
				for _, c := range report.Conflicts {
					name := string(c.StaffID)
					if st, ok := snap.StaffMember(c.StaffID); ok {
						name = st.Name
					}
					ids := make([]string, len(c.EventIDs))
					for i, id := range c.EventIDs {
						ids[i] = string(id)
					}
					tw.AppendRow(table.Row{c.Date, name, strings.Join(ids, ", ")})
				}
				tw.Render()

				tw = newTable()
				tw.SetTitle("Coverage shortages")
				tw.AppendHeader(table.Row{"Date", "Event", "Role", "Required", "Assigned"})
				for _, s := range report.Shortages {
					tw.AppendRow(table.Row{s.Date, s.EventID, s.Role, s.Required, s.Assigned})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day to check (default today)")
	cmd.Flags().BoolVar(&all, "all", false, "check every event, past ones included")
	return cmd
}

func bookingCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "booking <id>",
		Short: "Progress and payment status of a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			currency, err := paystatus.NewCurrency(cfg.CurrencyPrefix, cfg.CurrencyLocale)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, store *sqlite.Store) error {
				snap, err := store.Snapshot(ctx)
				if err != nil {
					return err
				}
				b, ok := snap.Booking(studio.BookingID(args[0]))
				if !ok {
					return &studio.NotFoundError{Kind: "booking", ID: args[0]}
				}
				prog := progress.Summarize(b, snap, studio.Today())
				pay := currency.ForBooking(b, snap.ClientPaymentsForBooking(b.ID))
				if jsonOutput {
					return printJSON(map[string]any{"booking": b, "progress": prog, "payment": pay})
				}

				fmt.Printf("%s  [%s]  %d%% (%s)\n", b.Name, prog.Status, prog.Percent, prog.Tier)
				fmt.Printf("Payment: %s (%s)\n", pay.Message, pay.Severity)
				if prog.PendingData > 0 {
					fmt.Printf("Data pending from %d assignment(s)\n", prog.PendingData)
				}

				tw := newTable()
				tw.AppendHeader(table.Row{"Medium", "Done", "Pending", "N/A", "%"})
				for _, m := range prog.Media {
					tw.AppendRow(table.Row{m.Medium, m.Counts.Completed, m.Counts.Pending, m.Counts.NotApplicable, m.Percent})
				}
				tw.Render()
				return nil
			})
		},
	}
}

// set-agreed staff:event=amount ... ; an empty event is a general payment.
func setAgreedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "set-agreed <staff>:<event>=<amount>...",
		Short: "Set agreed amounts, collapsing duplicates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits := reconcile.NewPendingEdits()
			for _, arg := range args {
				pair, amount, err := parseEdit(arg)
				if err != nil {
					return err
				}
				edits.Set(pair, amount)
			}
			logger := config.NewLogger(cfg)
			return withStore(cmd.Context(), func(ctx context.Context, store *sqlite.Store) error {
				result := reconcile.NewService(store, logger).SaveAll(ctx, edits)
				if jsonOutput {
					if err := printJSON(result.Results); err != nil {
						return err
					}
					return result.Err()
				}

				tw := newTable()
				tw.AppendHeader(table.Row{"Staff", "Event", "Action", "Amount", "Removed", "Error"})
				for _, r := range result.Results {
					msg := ""
					if r.Err != nil {
						msg = r.Err.Error()
					}
					tw.AppendRow(table.Row{r.Outcome.Pair.StaffID, r.Outcome.Pair.EventID, r.Outcome.Action, r.Outcome.Amount.String(), len(r.Outcome.Removed), msg})
				}
				tw.Render()
				return result.Err()
			})
		},
	}
}

func parseEdit(arg string) (reconcile.Pair, decimal.Decimal, error) {
	key, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return reconcile.Pair{}, decimal.Zero, fmt.Errorf("%q: expected staff:event=amount", arg)
	}
	staff, event, _ := strings.Cut(key, ":")
	if staff == "" {
		return reconcile.Pair{}, decimal.Zero, fmt.Errorf("%q: staff id is required", arg)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return reconcile.Pair{}, decimal.Zero, fmt.Errorf("%q: %w", arg, err)
	}
	return reconcile.Pair{StaffID: studio.StaffID(staff), EventID: studio.EventID(event)}, amount, nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <scenario>",
		Short: "Reset the database and load a demo scenario",
		Long:  "Reset the database and load a demo scenario.\n\nScenarios:\n" + scenarioList(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *sqlite.Store) error {
				if err := api.LoadScenarioInto(ctx, store, args[0], studio.Today()); err != nil {
					return err
				}
				fmt.Printf("Loaded %s into %s\n", args[0], dbPath)
				return nil
			})
		},
	}
}

func scenarioList() string {
	var b strings.Builder
	for _, s := range api.Scenarios() {
		fmt.Fprintf(&b, "  %-18s %s\n", s.ID, s.Description)
	}
	return b.String()
}

// =============================================================================
// OUTPUT
// =============================================================================

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	return tw
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
