package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyAll bool

var historyCmd = &cobra.Command{
	Use:   "history [record-id]",
	Short: "List past assessments, or show one record in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()

		if len(args) == 1 {
			record, err := a.docs.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Record %s (%s)\n", record.ID, record.Status)
			fmt.Fprintf(out, "Captured: %s\n", time.UnixMilli(record.Timestamp).Format(time.RFC1123))
			fmt.Fprintf(out, "Description: %s\n", record.Description)
			renderRecord(out, record)
			return nil
		}

		var cursor int64
		for {
			page, err := a.docs.ListByOwner(userID, cursor)
			if err != nil {
				return err
			}
			for _, record := range page.Records {
				fmt.Fprintf(out, "%s  %-8s  %-9s  %s\n",
					record.ID,
					record.SeverityLevel,
					record.Status,
					time.UnixMilli(record.Timestamp).Format("2006-01-02 15:04"))
			}
			if !page.HasMore || !historyAll {
				if page.HasMore {
					fmt.Fprintln(out, "... more records; rerun with --all")
				}
				return nil
			}
			cursor = page.NextCursor
		}
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "page through the full history")
}
