package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/einherij/surveyor/pkg/report"
)

var reportLimit int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List recent mission runs",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "number of runs to show")
	reportCmd.Flags().StringVar(&reportDBPath, "report-db", "./missions.db", "path to the mission report database")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := report.Open(reportDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(context.Background(), reportLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no mission runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tWAYPOINTS\tPHOTOS\tDURATION\tSTARTED\tERRORS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1fs\t%s\t%d\n",
			r.ID, r.State, r.WaypointsVisited, r.PhotosCaptured,
			r.EndedAt.Sub(r.StartedAt).Seconds(),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			len(r.Errors))
	}
	return w.Flush()
}
