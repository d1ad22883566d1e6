package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/promptcheck/internal/store"
)

func newHistoryCmd(st *cliState) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(st.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if limit <= 0 {
				limit = st.cfg.History.Limit
			}
			recs, err := db.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tUNITS\tPASSED\tFAILED\tTOTAL(ms)\tAVG(ms)")
			for _, rec := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.2f\t%.2f\n",
					rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.TotalUnits, rec.PassedUnits, rec.FailedUnits,
					rec.TotalMs, rec.AvgMs)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max runs to list (overrides config)")
	return cmd
}
