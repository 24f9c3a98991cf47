// Package reporting renders the goal hierarchy as text, markdown or yaml.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zorak1103/okrtree/internal/hierarchy"
	"github.com/zorak1103/okrtree/internal/sanitize"
)

const lineWidth = 80

// Options controls how a tree is rendered.
type Options struct {
	Locale hierarchy.Locale
	// Source names the store the tree was read from (markdown header only).
	Source string
}

func (o Options) locale() hierarchy.Locale {
	if o.Locale == "" {
		return hierarchy.LocaleNL
	}
	return o.Locale
}

// GenerateText renders every life domain with its goals, objectives and key
// results, each level sorted by its order field.
func GenerateText(tree *hierarchy.Tree, opts Options) string {
	var sb strings.Builder
	loc := opts.locale()
	lbl := labelsFor(loc)

	writeBanner(&sb, lbl.banner)

	domains := tree.SortedDomains()
	if len(domains) == 0 {
		sb.WriteString("ℹ️  " + lbl.noDomains + "\n\n")
		return sb.String()
	}

	for _, d := range domains {
		sb.WriteString(fmt.Sprintf("🏛️  LIFE DOMAIN: %s (%s)\n", d.Info.Title.In(loc), d.Info.Key))
		sb.WriteString(fmt.Sprintf("   ID: %d | Order: %s\n\n", d.Info.ID, FormatOrder(d.Info.Order)))

		goals := d.SortedGoals()
		if len(goals) == 0 {
			sb.WriteString("   ⚠️  " + lbl.noGoals + "\n\n")
		}
		for _, g := range goals {
			writeGoalText(&sb, g, loc, lbl)
		}

		sb.WriteString(strings.Repeat("-", lineWidth) + "\n\n")
	}

	return sb.String()
}

func writeGoalText(sb *strings.Builder, g *hierarchy.GoalNode, loc hierarchy.Locale, lbl labels) {
	sb.WriteString(fmt.Sprintf("   📌 GOAL %s: %s\n", FormatOrder(g.Info.Order), g.Info.Title.In(loc)))
	if !g.Info.Description.IsEmpty() {
		sb.WriteString(fmt.Sprintf("      %s: %s\n", lbl.description, g.Info.Description.In(loc)))
	}
	sb.WriteString(fmt.Sprintf("      ID: %d\n\n", g.Info.ID))

	objectives := g.SortedObjectives()
	if len(objectives) == 0 {
		sb.WriteString("      ⚠️  " + lbl.noObjectives + "\n\n")
		return
	}

	for _, o := range objectives {
		sb.WriteString(fmt.Sprintf("      🎯 OBJECTIVE %s: %s\n", FormatOrder(o.Info.Order), o.Info.Title.In(loc)))
		if !o.Info.Description.IsEmpty() {
			sb.WriteString(fmt.Sprintf("         %s: %s\n", lbl.description, o.Info.Description.In(loc)))
		}
		sb.WriteString(fmt.Sprintf("         ID: %d\n\n", o.Info.ID))

		krs := o.SortedKeyResults()
		if len(krs) == 0 {
			sb.WriteString("         ⚠️  " + lbl.noKeyResults + "\n\n")
			continue
		}

		for _, kr := range krs {
			sb.WriteString(fmt.Sprintf("         ✅ KEY RESULT %s: %s\n", FormatOrder(kr.Order), kr.Title.In(loc)))
			if !kr.Description.IsEmpty() {
				sb.WriteString(fmt.Sprintf("            %s: %s\n", lbl.description, kr.Description.In(loc)))
			}
			sb.WriteString(fmt.Sprintf("            Target: %s\n", FormatTarget(kr.Target, kr.Unit)))
			sb.WriteString(fmt.Sprintf("            ID: %d\n\n", kr.ID))
		}
	}
}

// GenerateSummary renders the per-domain and total entity counts as a table.
func GenerateSummary(tree *hierarchy.Tree, opts Options) string {
	var sb strings.Builder
	loc := opts.locale()
	lbl := labelsFor(loc)

	writeBanner(&sb, lbl.summaryBanner)

	for _, d := range tree.SortedDomains() {
		writeSummaryLine(&sb, d.Info.Title.In(loc), d.Counts())
	}
	sb.WriteString(strings.Repeat("-", lineWidth) + "\n")
	writeSummaryLine(&sb, lbl.total, tree.Totals())
	sb.WriteString("\n")

	return sb.String()
}

func writeSummaryLine(sb *strings.Builder, label string, c hierarchy.Counts) {
	sb.WriteString(fmt.Sprintf("%-30s | Goals: %3d | Objectives: %3d | Key Results: %3d\n",
		label, c.Goals, c.Objectives, c.KeyResults))
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n\n")
}

// GenerateMarkdown formats the tree and its summary as a markdown report.
func GenerateMarkdown(tree *hierarchy.Tree, opts Options) string {
	var sb strings.Builder
	loc := opts.locale()
	lbl := labelsFor(loc)

	timestamp := time.Now().Format(time.RFC1123)

	// Header
	sb.WriteString("# " + lbl.heading + "\n\n")
	sb.WriteString(fmt.Sprintf("**Date:** %s  \n", timestamp))
	if opts.Source != "" {
		sb.WriteString(fmt.Sprintf("**Source:** `%s`  \n", opts.Source))
	}
	sb.WriteString(fmt.Sprintf("**Locale:** %s  \n", loc))
	sb.WriteString(fmt.Sprintf("**Life Domains:** %d\n\n", tree.Len()))

	domains := tree.SortedDomains()
	if len(domains) == 0 {
		sb.WriteString("_" + lbl.noDomains + "._\n\n")
	}

	for _, d := range domains {
		sb.WriteString(fmt.Sprintf("## 🏛️ %s (`%s`)\n\n", d.Info.Title.In(loc), d.Info.Key))
		sb.WriteString(fmt.Sprintf("_ID: %d, order: %s_\n\n", d.Info.ID, FormatOrder(d.Info.Order)))

		goals := d.SortedGoals()
		if len(goals) == 0 {
			sb.WriteString("_" + lbl.noGoals + "._\n\n")
		}
		for _, g := range goals {
			writeGoalMarkdown(&sb, g, loc, lbl)
		}
	}

	// Summary Section
	sb.WriteString("## 📊 " + lbl.summary + "\n\n")
	sb.WriteString("| " + lbl.domainColumn + " | Goals | Objectives | Key Results |\n")
	sb.WriteString("|-------------|-------|------------|-------------|\n")
	for _, d := range domains {
		c := d.Counts()
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n", escapeTableCell(d.Info.Title.In(loc)), c.Goals, c.Objectives, c.KeyResults))
	}
	total := tree.Totals()
	sb.WriteString(fmt.Sprintf("| **%s** | %d | %d | %d |\n", lbl.total, total.Goals, total.Objectives, total.KeyResults))

	return sb.String()
}

func writeGoalMarkdown(sb *strings.Builder, g *hierarchy.GoalNode, loc hierarchy.Locale, lbl labels) {
	sb.WriteString(fmt.Sprintf("### 📌 Goal %s: %s\n\n", FormatOrder(g.Info.Order), g.Info.Title.In(loc)))
	if !g.Info.Description.IsEmpty() {
		sb.WriteString(g.Info.Description.In(loc) + "\n\n")
	}

	objectives := g.SortedObjectives()
	if len(objectives) == 0 {
		sb.WriteString("_" + lbl.noObjectives + "._\n\n")
		return
	}

	for _, o := range objectives {
		sb.WriteString(fmt.Sprintf("#### 🎯 Objective %s: %s\n\n", FormatOrder(o.Info.Order), o.Info.Title.In(loc)))
		if !o.Info.Description.IsEmpty() {
			sb.WriteString(o.Info.Description.In(loc) + "\n\n")
		}

		krs := o.SortedKeyResults()
		if len(krs) == 0 {
			sb.WriteString("_" + lbl.noKeyResults + "._\n\n")
			continue
		}
		for _, kr := range krs {
			sb.WriteString(fmt.Sprintf("- ✅ **Key result %s:** %s (target: %s)\n",
				FormatOrder(kr.Order), kr.Title.In(loc), FormatTarget(kr.Target, kr.Unit)))
		}
		sb.WriteString("\n")
	}
}

// escapeTableCell keeps a pipe in a title from splitting a markdown table cell.
func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// FormatOrder renders an optional order value, "-" when absent.
func FormatOrder(order *int) string {
	if order == nil {
		return "-"
	}
	return strconv.Itoa(*order)
}

// FormatTarget renders a key result target in its shortest decimal form
// followed by the unit.
func FormatTarget(target *float64, unit string) string {
	value := "?"
	if target != nil {
		value = strconv.FormatFloat(*target, 'f', -1, 64)
	}
	return strings.TrimSpace(value + " " + unit)
}

// SaveReport writes a report to the source's directory and returns the file path.
func SaveReport(reportsDir, source, content, ext string) (string, error) {
	// Create source directory inside reports dir
	sourceDir := filepath.Join(reportsDir, sanitize.Name(source))
	if err := os.MkdirAll(sourceDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	// Generate filename: YYYY-MM-DD_HH-MM-SS.<ext>
	filename := time.Now().Format("2006-01-02_15-04-05") + "." + strings.TrimPrefix(ext, ".")
	filePath := filepath.Join(sourceDir, filename)

	if err := writeFileAtomic(filePath, []byte(content)); err != nil {
		return "", err
	}

	return filePath, nil
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it into place, so a reader never sees a partially written report.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "report-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in directory %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()    // Best effort cleanup
		_ = os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()    // Best effort cleanup
		_ = os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("failed to sync report file %s: %w", path, err)
	}

	_ = tmpFile.Close() // Explicit ignore - we've already synced

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("failed to rename temp file %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
