package main

import (
	"context"
	"io"
	"orphancare/config"
	"orphancare/domain"
	"orphancare/services/orphanage/repository"
	"orphancare/services/orphanage/usecase"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report children whose status disagrees with their latest adoption request",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.BootDB()
			if err != nil {
				log.Fatalf("Failed to boot DB: %v", err)
			}
			defer config.CloseDB(db)

			guard := repository.NewGuard()
			uc := usecase.NewReconcileUseCase(
				repository.NewChildRepository(db, guard),
				repository.NewAdoptionRepository(db, guard),
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			drifts, err := uc.Reconcile(ctx, fix)
			renderDrifts(cmd.OutOrStdout(), drifts)
			return err
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "write the expected status back to each drifted child")
	return cmd
}

func renderDrifts(w io.Writer, drifts []domain.ChildDrift) {
	if len(drifts) == 0 {
		io.WriteString(w, "No drift found.\n")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Child", "Name", "Stored", "Expected", "Last request", "Fixed"})
	for _, d := range drifts {
		t.AppendRow(table.Row{d.ChildID, d.ChildName, d.Stored, d.Expected, d.LastRequestID, d.Fixed})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(drifts)})
	t.Render()
}
