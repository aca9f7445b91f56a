package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/internal/transport/response"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

// structured writes v as JSON or YAML and reports whether it did.
// YAML goes through the JSON form so keys match the wire names.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		return true, p.yaml(v)
	}
	return false, nil
}

func (p *printer) yaml(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func (p *printer) profile(v response.Profile) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	fmt.Fprintf(p.w, "User: %s\n", v.UserID)
	if v.UpdatedAt != nil {
		fmt.Fprintf(p.w, "Updated: %s\n", v.UpdatedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(p.w)
	return p.yaml(v.ProfileDocument)
}

func (p *printer) history(v response.History, offset int) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	if len(v.History) == 0 {
		fmt.Fprintf(p.w, "No versions found (%d total).\n", v.Total)
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSECTION\tCREATED\tDESCRIPTION")
	for _, item := range v.History {
		desc := ""
		if item.ChangeDescription != nil {
			desc = *item.ChangeDescription
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.SectionChanged, item.CreatedAt.Format(time.RFC3339), desc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(p.w, "\nShowing %d-%d of %d versions.\n", offset+1, offset+len(v.History), v.Total)
	return nil
}

func (p *printer) version(v response.Version) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	fmt.Fprintf(p.w, "Version %d (%s) at %s\n\n", v.HistoryID, v.SectionChanged, v.Timestamp.Format(time.RFC3339))
	return p.yaml(v.Profile.ProfileDocument)
}

func (p *printer) comparison(v response.Comparison) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	c := v.Comparison
	fmt.Fprintf(p.w, "Comparing %d (%s) with %d (%s)\n",
		c.HistoryID1, c.Date1.Format(time.RFC3339), c.HistoryID2, c.Date2.Format(time.RFC3339))
	if c.Changes.IsEmpty() {
		fmt.Fprintln(p.w, "\nNo differences.")
		return nil
	}
	for _, section := range domain.DocumentSections() {
		changes := c.Changes.Section(section)
		fmt.Fprintf(p.w, "\n%s (%d changed)\n", section, changes.Count())
		if len(changes) > 0 {
			fmt.Fprint(p.w, indent(changes.String()))
		}
	}
	return nil
}

func (p *printer) restored(id int64, v response.Saved) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	fmt.Fprintf(p.w, "Restored version %d as history entry %d.\n", id, v.HistoryID)
	return nil
}

func indent(s string) string {
	out := make([]byte, 0, len(s)+16)
	atLineStart := true
	for i := 0; i < len(s); i++ {
		if atLineStart {
			out = append(out, "  "...)
		}
		out = append(out, s[i])
		atLineStart = s[i] == '\n'
	}
	return string(out)
}
