package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/jward/strata"
)

// outputJSON writes the full result as indented JSON.
func outputJSON(w io.Writer, res *strata.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// outputText writes a readable summary: counts, layer/language breakdowns,
// flows, and processes.
func outputText(w io.Writer, res *strata.Result) error {
	fmt.Fprintln(w, "Analysis Summary")
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "Root: %s\n", res.Root)
	fmt.Fprintf(w, "Components: %d (%d placeholders)\n", len(res.Components), len(res.Placeholders()))
	fmt.Fprintf(w, "Relationships: %d\n", len(res.Relationships))
	fmt.Fprintf(w, "Navigation flows: %d\n", len(res.NavigationFlows))
	fmt.Fprintln(w)

	if langs := res.ComponentsByLanguage(); len(langs) > 0 {
		fmt.Fprintln(w, "Languages:")
		keys := make([]string, 0, len(langs))
		for l := range langs {
			keys = append(keys, string(l))
		}
		sort.Strings(keys)
		for _, l := range keys {
			fmt.Fprintf(w, "  %s: %d components\n", l, langs[strata.Language(l)])
		}
		fmt.Fprintln(w)
	}

	if layers := res.ComponentsByLayer(); len(layers) > 0 {
		fmt.Fprintln(w, "Layers:")
		keys := make([]string, 0, len(layers))
		for l := range layers {
			keys = append(keys, string(l))
		}
		sort.Strings(keys)
		for _, l := range keys {
			fmt.Fprintf(w, "  %s: %d\n", l, layers[strata.Layer(l)])
		}
		fmt.Fprintln(w)
	}

	if rels := res.RelationshipsByType(); len(rels) > 0 {
		fmt.Fprintln(w, "Relationships:")
		keys := make([]string, 0, len(rels))
		for t := range rels {
			keys = append(keys, string(t))
		}
		sort.Strings(keys)
		for _, t := range keys {
			fmt.Fprintf(w, "  %s: %d\n", t, rels[strata.RelationType(t)])
		}
		fmt.Fprintln(w)
	}

	if len(res.UserFlows) > 0 {
		fmt.Fprintln(w, "User Flow:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  SCREEN\tTYPE\tOUT\tIN")
		for _, uf := range res.UserFlows {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\n", uf.ID, uf.FlowType, len(uf.OutgoingPaths), len(uf.IncomingPaths))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(res.Processes) > 0 {
		fmt.Fprintln(w, "Business Processes:")
		for _, p := range res.Processes {
			fmt.Fprintf(w, "  %s (%s, %s): %d steps\n", p.Name, p.Type, p.Criticality, len(p.Steps))
		}
		fmt.Fprintln(w)
	}

	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(w, "Diagnostics: %d\n", len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  [%s] %s: %s\n", d.Stage, d.Path, d.Message)
		}
	}

	return nil
}
