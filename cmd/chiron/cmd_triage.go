package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chiron/internal/intake"
	"chiron/internal/triage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Run an interactive injury assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		// Background workers for the session: reachability probing,
		// guidance-override hot reload, and remote history sync.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return a.prober.Run(gctx) })
		g.Go(func() error { return a.monitor.Run(gctx) })
		g.Go(func() error { return a.canned.Watch(gctx) })
		a.syncer.Start()

		err = runTriage(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a)

		cancel()
		if werr := g.Wait(); werr != nil {
			logger.Warn("Monitor shutdown", zap.Error(werr))
		}
		return err
	},
}

// runTriage drives the intake state machine from terminal prompts.
func runTriage(ctx context.Context, in io.Reader, out io.Writer, a *app) error {
	reader := bufio.NewReader(in)
	session := intake.NewSession(a.resolver, a.store, a.docs, userID)

	fmt.Fprintln(out, "Emergency Assessment")
	fmt.Fprintln(out, "chiron is not a substitute for professional care. In a real emergency, call your local emergency number first.")
	if a.store.State().Offline {
		fmt.Fprintln(out, "(offline: guidance will come from local defaults)")
	}
	fmt.Fprintln(out)

	// capture
	photo := prompt(reader, out, "Photo path or URL (enter to skip): ")
	if photo == "" {
		if err := session.SkipPhoto(); err != nil {
			return err
		}
	} else {
		if err := session.CapturePhoto(photo); err != nil {
			return err
		}
	}

	// describe
	for {
		desc := prompt(reader, out, "Describe the situation or injury (or 'retake'): ")
		if strings.EqualFold(desc, "retake") {
			if err := session.Retake(); err != nil {
				return err
			}
			photo = prompt(reader, out, "Photo path or URL (enter to skip): ")
			if photo == "" {
				if err := session.SkipPhoto(); err != nil {
					return err
				}
			} else if err := session.CapturePhoto(photo); err != nil {
				return err
			}
			continue
		}
		if err := session.SetDescription(desc); err != nil {
			return err
		}
		if err := session.Continue(); err != nil {
			return err
		}
		break
	}

	// assess
	fmt.Fprintln(out, "Injury types:")
	for i, t := range triage.InjuryTypes {
		fmt.Fprintf(out, "  %d. %s\n", i+1, t.Label)
	}
	for _, pick := range strings.Split(prompt(reader, out, "Select types (comma-separated numbers, enter for none): "), ",") {
		pick = strings.TrimSpace(pick)
		if pick == "" {
			continue
		}
		n, err := strconv.Atoi(pick)
		if err != nil || n < 1 || n > len(triage.InjuryTypes) {
			fmt.Fprintf(out, "  ignoring %q\n", pick)
			continue
		}
		if err := session.ToggleInjuryType(triage.InjuryTypes[n-1].ID); err != nil {
			return err
		}
	}

	session.SetConscious(promptYesNo(reader, out, "Is the patient conscious?", true))
	session.SetAge(prompt(reader, out, "Age (enter if unknown): "))
	session.SetGender(prompt(reader, out, "Gender (enter to skip): "))
	session.SetObviousBleeding(promptYesNo(reader, out, "Obvious bleeding?", false))

	// processing
	for {
		fmt.Fprintln(out, "\nRequesting assessment...")
		record, err := session.Submit(ctx)
		if err == nil {
			renderRecord(out, record)
			return nil
		}

		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "Cannot submit yet: %s\n", verr.Msg)
			desc := prompt(reader, out, "Describe the situation or injury: ")
			if serr := session.SetDescription(desc); serr != nil {
				return serr
			}
			continue
		}
		// Unexpected failure: the session is back in assess with the
		// fields intact; surface the message and let the user retry.
		fmt.Fprintf(out, "Assessment failed: %v\n", err)
		if !promptYesNo(reader, out, "Try again?", true) {
			return err
		}
	}
}

// renderRecord prints the guidance card for a finished assessment.
func renderRecord(out io.Writer, record triage.InjuryRecord) {
	fmt.Fprintf(out, "\nSeverity: %s\n", strings.ToUpper(string(record.SeverityLevel)))
	printList(out, "Immediate actions", record.ImmediateActions)
	printList(out, "Assessment steps", record.AssessmentSteps)
	printList(out, "Red flags", record.RedFlags)
	printList(out, "Next steps", record.NextSteps)
	fmt.Fprintf(out, "\nSaved as record %s\n", record.ID)
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

func prompt(reader *bufio.Reader, out io.Writer, msg string) string {
	fmt.Fprint(out, msg)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, msg string, def bool) bool {
	hint := "Y/n"
	if !def {
		hint = "y/N"
	}
	answer := strings.ToLower(prompt(reader, out, fmt.Sprintf("%s [%s]: ", msg, hint)))
	switch answer {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
