package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-journal/internal/adapters/apiclient"
	"github.com/PabloGalante/farum-journal/internal/app/editflow"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

var (
	editServer  string
	editUser    string
	editID      string
	editText    string
	editTimeout time.Duration
	editAck     bool
)

// editCmd drives the edit and re-analysis flow over HTTP
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit an entry on a server and wait for its new insight",
	Long: `Saves new text for an entry, lets the server re-analyze it in the
background and prints the reloaded record once analysis finished.

The text is saved even when re-analysis fails; the previous analysis is
kept in that case.`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editServer, "server", "http://localhost:8080", "farum-api base URL")
	editCmd.Flags().StringVar(&editUser, "user", "", "user id sent as X-User-ID")
	editCmd.Flags().StringVar(&editID, "id", "", "journal entry id")
	editCmd.Flags().StringVar(&editText, "text", "", "new entry text")
	editCmd.Flags().DurationVar(&editTimeout, "timeout", 2*time.Minute, "how long to wait for re-analysis")
	editCmd.Flags().BoolVar(&editAck, "ack", false, "mark the new therapy note as viewed")
	_ = editCmd.MarkFlagRequired("user")
	_ = editCmd.MarkFlagRequired("id")
	_ = editCmd.MarkFlagRequired("text")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := apiclient.New(editServer, domain.UserID(editUser), nil)

	entry, err := client.Load(ctx, domain.JournalEntryID(editID))
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}

	flow := editflow.New(client, entry)
	if err := flow.Start(); err != nil {
		return err
	}

	task, err := flow.Save(ctx, editText)
	if err != nil {
		return fmt.Errorf("save text: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "text saved, analyzing...")

	waitCtx, cancel := context.WithTimeout(ctx, editTimeout)
	defer cancel()

	out, err := task.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for analysis: %w", err)
	}

	switch {
	case out.Deleted:
		return fmt.Errorf("entry %s was deleted while analyzing", editID)
	case out.LoadErr != nil:
		return fmt.Errorf("reload entry: %w", out.LoadErr)
	case out.AnalysisErr != nil:
		fmt.Fprintf(cmd.ErrOrStderr(), "analysis failed, previous insight kept: %v\n", out.AnalysisErr)
	}

	if editAck && flow.HasNewInsight() {
		if err := flow.AcknowledgeInsight(ctx); err != nil {
			return fmt.Errorf("mark viewed: %w", err)
		}
	}

	return printJSON(cmd.OutOrStdout(), flow.Entry())
}
