package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"support-system/internal/integrations/supportapi"
	"support-system/internal/ticketlist"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printView(w io.Writer, v ticketlist.View) {
	if v.Error != "" {
		fmt.Fprintln(w, v.Error)
		return
	}
	if v.Empty != "" {
		fmt.Fprintln(w, v.Empty)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "ID\tTÍTULO\tESTADO\tPRIORIDAD\tCATEGORÍA\tPROYECTO"
	if v.ShowClientColumn {
		header += "\tCLIENTE"
	}
	fmt.Fprintln(tw, header+"\tINGENIERO\tCREADO")
	for _, r := range v.Rows {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s", r.TicketID, r.Title, r.StatusLabel, r.PriorityLabel, r.Category, r.ProjectID)
		if v.ShowClientColumn {
			line += "\t" + r.ClientName
		}
		fmt.Fprintln(tw, line+"\t"+r.EngineerName+"\t"+r.CreatedAt)
	}
	_ = tw.Flush()

	if v.ShowPagination {
		fmt.Fprintln(w, v.PageCaption)
	}
}

func printHistory(w io.Writer, entries []supportapi.HistoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FECHA\tUSUARIO\tACCIÓN\tCAMPO\tANTES\tDESPUÉS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.CreatedAt, e.UserName, e.Action, e.FieldName, e.OldValue, e.NewValue)
	}
	_ = tw.Flush()
}
