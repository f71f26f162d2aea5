package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"checkit-dashboard/pkg/navigation"
)

type treeStyles struct {
	group  lipgloss.Style
	label  lipgloss.Style
	top    lipgloss.Style
	link   lipgloss.Style
	active lipgloss.Style
	href   lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	ok     lipgloss.Style
}

// newTreeStyles binds the styles to out so colours are dropped when out is
// not a terminal.
func newTreeStyles(out io.Writer) treeStyles {
	r := lipgloss.NewRenderer(out)
	return treeStyles{
		group:  r.NewStyle().Bold(true),
		label:  r.NewStyle().Faint(true),
		top:    r.NewStyle().Bold(true),
		link:   r.NewStyle(),
		active: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		href:   r.NewStyle().Faint(true),
		err:    r.NewStyle().Foreground(lipgloss.Color("196")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("214")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// renderTree prints one line per visible node. Collapsed groups hide their
// children the same way the sidebar does.
func renderTree(out io.Writer, nodes []navigation.Node) string {
	styles := newTreeStyles(out)
	var b strings.Builder
	writeNodes(&b, styles, nodes)
	return b.String()
}

func writeNodes(b *strings.Builder, styles treeStyles, nodes []navigation.Node) {
	for _, node := range nodes {
		if !node.Visible() {
			continue
		}

		indent := strings.Repeat("  ", node.Level)

		switch node.Kind {
		case navigation.KindGroup:
			marker := "▾"
			if !node.Open {
				marker = "▸"
			}
			fmt.Fprintf(b, "%s%s %s\n", indent, marker, styles.group.Render(node.Name))
			if node.Open {
				writeNodes(b, styles, node.Children)
			}
		case navigation.KindLabel:
			fmt.Fprintf(b, "%s  %s\n", indent, styles.label.Render(node.Name))
		case navigation.KindLink:
			marker := " "
			style := styles.link
			if node.TopLevel {
				style = styles.top
			}
			if node.Active {
				marker = "›"
				style = styles.active
			}
			fmt.Fprintf(b, "%s%s %s  %s\n", indent, marker, style.Render(node.Name), styles.href.Render(node.Href))
		}
	}
}

func renderIssues(out io.Writer, source string, issues []navigation.Issue) string {
	styles := newTreeStyles(out)
	var b strings.Builder

	if len(issues) == 0 {
		fmt.Fprintf(&b, "%s %s\n", styles.ok.Render("ok"), source)
		return b.String()
	}

	for _, issue := range issues {
		style := styles.warn
		if issue.Severity == navigation.SeverityError {
			style = styles.err
		}
		fmt.Fprintf(&b, "%s %s: %s\n", style.Render(string(issue.Severity)), issue.Key, issue.Message)
	}
	return b.String()
}
