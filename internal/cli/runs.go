package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Show recorded runs, or the pair outcomes of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("run history is disabled (store.path is empty)")
	}
	defer st.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(args) == 1 {
		run, outcomes, err := st.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		fmt.Fprintf(w, "Run %s\t%s\t%d records\t%s\n", run.ID, run.Status, run.Metrics.TotalRecords, run.Error)
		fmt.Fprintln(w, "COUNTRY\tINDICATOR\tSTATUS\tRECORDS\tERROR")
		for _, o := range outcomes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", o.CountryCode, o.IndicatorCode, o.Status, o.Records, o.Error)
		}
		return nil
	}

	runs, err := st.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tSTATUS\tRECORDS\tSTARTED\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Status, r.Metrics.TotalRecords, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Error)
	}
	return nil
}
