package main

import (
	"fmt"
	"strings"

	"chiron/internal/triage"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <record-id> <question>",
	Short: "Ask a follow-up question about a past assessment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		record, err := a.docs.Get(args[0])
		if err != nil {
			return err
		}

		question := strings.Join(args[1:], " ")
		reply := a.chat.Respond(cmd.Context(), chatContext(record), question)
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

// chatContext summarizes the record for the follow-up prompt.
func chatContext(record triage.InjuryRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Injury: %s. Severity: %s.", record.Description, record.SeverityLevel)
	if len(record.InjuryTypes) > 0 {
		labels := make([]string, len(record.InjuryTypes))
		for i, id := range record.InjuryTypes {
			labels[i] = triage.SymptomLabel(id)
		}
		fmt.Fprintf(&b, " Reported: %s.", strings.Join(labels, ", "))
	}
	if len(record.ImmediateActions) > 0 {
		fmt.Fprintf(&b, " Guidance so far: %s.", strings.Join(record.ImmediateActions, "; "))
	}
	return b.String()
}
