package main

import (
	"fmt"

	"chiron/internal/appstate"
	"chiron/internal/triage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var contactRelationship string

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage emergency contacts",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List emergency contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		contacts, err := a.docs.ListContacts(userID)
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No emergency contacts saved.")
			return nil
		}
		for _, c := range contacts {
			rel := c.Relationship
			if rel == "" {
				rel = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  %-15s  %s\n", c.ID, c.Name, c.Phone, rel)
		}
		return nil
	},
}

var contactsAddCmd = &cobra.Command{
	Use:   "add <name> <phone>",
	Short: "Add an emergency contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		contact := triage.EmergencyContact{
			ID:           uuid.New().String(),
			Name:         args[0],
			Phone:        args[1],
			Relationship: contactRelationship,
		}
		if err := a.docs.SaveContact(userID, contact); err != nil {
			return err
		}
		a.store.Dispatch(appstate.AddContact{Contact: contact})
		fmt.Fprintf(cmd.OutOrStdout(), "Added contact %s\n", contact.ID)
		return nil
	},
}

var contactsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an emergency contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.docs.DeleteContact(userID, args[0]); err != nil {
			return err
		}
		a.store.Dispatch(appstate.RemoveContact{ID: args[0]})
		fmt.Fprintf(cmd.OutOrStdout(), "Removed contact %s\n", args[0])
		return nil
	},
}

func init() {
	contactsAddCmd.Flags().StringVar(&contactRelationship, "relationship", "", "relationship label")
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsRemoveCmd)
}
