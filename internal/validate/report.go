package validate

import (
	"fmt"
	"io"
	"path/filepath"
)

// Write prints a per-game pass/fail listing followed by the findings.
func (r *Report) Write(w io.Writer) {
	if len(r.Games) == 0 && len(r.Findings) == 0 {
		fmt.Fprintln(w, "No microgames found.")
		return
	}

	maxKey := 3 // "Key" header
	for _, g := range r.Games {
		maxKey = max(maxKey, len(g.Key))
	}

	fmt.Fprintf(w, "  %-6s  %-*s  %-12s  %-6s  %s\n", "Result", maxKey, "Key", "Prompt", "Time", "Source")
	fmt.Fprintf(w, "  %-6s  %-*s  %-12s  %-6s  %s\n", "------", maxKey, "---", "------", "----", "------")
	for _, g := range r.Games {
		status := "PASS"
		if !g.Passed() {
			status = "FAIL"
		}
		key := g.Key
		if key == "" {
			key = "-"
		}
		dur := "-"
		if g.Duration > 0 {
			dur = g.Duration.String()
		}
		fmt.Fprintf(w, "  %-6s  %-*s  %-12s  %-6s  %s.%s\n",
			status, maxKey, key, g.Prompt, dur, filepath.ToSlash(g.Dir), g.Type)
	}

	findings := append([]Finding(nil), r.Findings...)
	for _, g := range r.Games {
		findings = append(findings, g.Findings...)
	}
	if len(findings) > 0 {
		fmt.Fprintln(w)
		for _, f := range findings {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d microgames, %d errors, %d warnings\n", len(r.Games), r.Errors(), r.Warnings())
}
