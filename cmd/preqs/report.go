package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jward/preqs"
)

// renderCheckReport writes the check-mode table: one row per manifest entry,
// in manifest order.
func renderCheckReport(w io.Writer, results []preqs.CheckResult) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Name", "Requirement", "Installed", "Status"})
	for _, res := range results {
		required := res.Required
		if required == "" {
			required = "-"
		}
		tbl.AppendRow(table.Row{res.Name, required, res.Installed, res.Status})
	}
	tbl.Render()
}

// printRequirements writes the print-mode output: the manifest content
// followed by any imports that resolved to no installed distribution.
func printRequirements(w io.Writer, d *preqs.Discovery) {
	fmt.Fprintln(w, "The following requirements were captured:")
	fmt.Fprintln(w, "------------------------------------------")
	fmt.Fprint(w, d.Requirements.Serialize())
	if len(d.Unknown) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Unknown or not installed (excluded from the manifest):")
		for _, name := range d.Unknown {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}
}
