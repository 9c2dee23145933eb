// Package docs renders the command reference embedded in README.md.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"hellabot/internal/command"
)

// DefaultTemplate is used when no README.md.tmpl is present.
const DefaultTemplate = `# HellaBot

A Discord bot serving Arknights game data: operators, Contingency Contract
stages and per-command help.

## Commands

{{ .CommandSections }}`

// CommandSections renders one markdown entry per command, in registry order.
func CommandSections(descs []command.Descriptor) string {
	var buf bytes.Buffer
	for _, d := range descs {
		summary := ""
		if d.Definition != nil {
			summary = d.Definition.Description
		}
		fmt.Fprintf(&buf, "### %s\n\n* **`/%s`** %s\n", title(d), d.Name, summary)
		for _, line := range d.Description {
			fmt.Fprintf(&buf, "\n%s\n", line)
		}
		if len(d.Usage) > 0 {
			buf.WriteString("\nUsage:\n\n")
			for _, u := range d.Usage {
				fmt.Fprintf(&buf, "* %s\n", u)
			}
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// Render executes tmpl with the command sections.
func Render(tmpl string, descs []command.Descriptor) ([]byte, error) {
	t, err := template.New("readme").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse readme template: %w", err)
	}

	var out bytes.Buffer
	data := struct{ CommandSections string }{CommandSections: CommandSections(descs)}
	if err := t.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}
	return out.Bytes(), nil
}

// UpdateReadme renders tmplPath (or DefaultTemplate when it does not exist)
// into outPath.
func UpdateReadme(tmplPath, outPath string, descs []command.Descriptor) error {
	tmpl := DefaultTemplate
	data, err := os.ReadFile(tmplPath)
	switch {
	case err == nil:
		tmpl = string(data)
	case !os.IsNotExist(err):
		return err
	}

	out, err := Render(tmpl, descs)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}

func title(d command.Descriptor) string {
	if d.Title != "" || d.Name == "" {
		return d.Title
	}
	return strings.ToUpper(d.Name[:1]) + d.Name[1:]
}
