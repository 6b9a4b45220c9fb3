package strategy

import (
	"fmt"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/knowledge"
)

// Answers are light markdown: a heading, labelled lines and bullet lists.

func heading(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "## %s\n\n", title)
}

func subheading(b *strings.Builder, title string) {
	fmt.Fprintf(b, "**%s**\n", title)
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n", label, value)
}

func bullets(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func numbered(b *strings.Builder, items []string) {
	for i, it := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, it)
	}
	b.WriteString("\n")
}

func listSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	subheading(b, title)
	bullets(b, items)
}

func guide(b *strings.Builder, g knowledge.Guide) {
	heading(b, g.Title)
	for _, s := range g.Sections {
		listSection(b, s.Heading, s.Items)
	}
}

func courseLabel(c knowledge.Course) string {
	if c.Title == "" {
		return c.Code
	}
	return c.Code + " - " + c.Title
}

func shortName(store knowledge.Store) string {
	if n := store.Institution().ShortName; n != "" {
		return n
	}
	return "FUT Minna"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
