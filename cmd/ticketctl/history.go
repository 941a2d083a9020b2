package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"support-system/internal/ticketlist"
)

var historyCmd = &cobra.Command{
	Use:   "history <ticket-id>",
	Short: "Mostrar el historial de cambios de un ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := api.History(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exportar los tickets filtrados a XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		// панель без подписчика: выгрузка не загружает список
		fm := ticketlist.NewFilterManager(nil)
		if _, err := setFilterFlags(cmd.Context(), cmd, fm); err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")

		data, err := api.Export(cmd.Context(), ticketlist.BuildQuery(fm.State(), 1, perPage))
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("no se pudo guardar %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exportado a %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("out", "tickets.xlsx", "archivo de salida")
}
