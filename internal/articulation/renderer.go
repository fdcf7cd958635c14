// Package articulation renders matchup analyses for people: Markdown for
// files and the web, glamour-styled output for terminals.
package articulation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"lolmath/internal/analysis"
	"lolmath/internal/logging"
	"lolmath/internal/perception"

	"github.com/charmbracelet/glamour"
)

// AssetResolver maps names from a record to icon URLs. An empty string
// means no icon. *catalog.Store satisfies it.
type AssetResolver interface {
	ResolveChampionIcon(name string) string
	ResolveChampionSplash(name string) string
	ResolveItemIcon(name string) string
	ResolveRuneIcon(name string) string
	// ResolveAbilityIcon may fetch per-champion data.
	ResolveAbilityIcon(ctx context.Context, champion, slot string) string
}

// NoAssets resolves nothing; use it when no catalog is loaded.
type NoAssets struct{}

func (NoAssets) ResolveChampionIcon(string) string                         { return "" }
func (NoAssets) ResolveChampionSplash(string) string                       { return "" }
func (NoAssets) ResolveItemIcon(string) string                             { return "" }
func (NoAssets) ResolveRuneIcon(string) string                             { return "" }
func (NoAssets) ResolveAbilityIcon(context.Context, string, string) string { return "" }

// TryAgainMessage is shown in place of an analysis without a record.
const TryAgainMessage = "Could not generate valid analysis data. Please try again."

const barWidth = 20

// Renderer renders analyses using an AssetResolver for icons.
type Renderer struct {
	assets AssetResolver
	width  int
}

// NewRenderer returns a Renderer. A nil resolver renders without icons.
func NewRenderer(assets AssetResolver) *Renderer {
	if assets == nil {
		assets = NoAssets{}
	}
	return &Renderer{assets: assets, width: 100}
}

// WithWidth sets the terminal word-wrap width.
func (r *Renderer) WithWidth(width int) *Renderer {
	if width > 20 {
		r.width = width
	}
	return r
}

// Markdown renders a full report. ctx bounds ability icon lookups.
func (r *Renderer) Markdown(ctx context.Context, a *perception.Analysis) string {
	var sb strings.Builder

	if a == nil || a.Record == nil {
		sb.WriteString("# Analysis unavailable\n\n")
		sb.WriteString(TryAgainMessage + "\n")
		if a != nil {
			r.writeSources(&sb, a.Citations)
		}
		return sb.String()
	}

	rec := a.Record
	r.writeHeader(&sb, rec)
	r.writeRunes(&sb, rec.Runes)
	r.writeBuild(&sb, rec.Build)
	r.writeSkills(ctx, &sb, rec.Champion, rec.Skills)
	writeMath(&sb, rec.MathAnalysis)
	writePowerCurve(&sb, rec.PowerCurve)
	r.writeSources(&sb, a.Citations)

	return sb.String()
}

// Terminal renders the Markdown report through glamour.
func (r *Renderer) Terminal(ctx context.Context, a *perception.Analysis) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := tr.Render(r.Markdown(ctx, a))
	if err != nil {
		return "", fmt.Errorf("failed to render analysis: %w", err)
	}
	logging.ArticulationDebug("rendered %d bytes for terminal", len(out))
	return out, nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func image(alt, url string) string {
	if url == "" {
		return ""
	}
	return fmt.Sprintf("![%s](%s) ", alt, url)
}

func (r *Renderer) writeHeader(sb *strings.Builder, rec *analysis.Record) {
	fmt.Fprintf(sb, "# %s%s vs %s%s\n\n",
		image(rec.Champion, r.assets.ResolveChampionIcon(rec.Champion)), rec.Champion,
		image(rec.Opponent, r.assets.ResolveChampionIcon(rec.Opponent)), rec.Opponent)
	if splashes := image(rec.Champion+" splash", r.assets.ResolveChampionSplash(rec.Champion)) +
		image(rec.Opponent+" splash", r.assets.ResolveChampionSplash(rec.Opponent)); splashes != "" {
		sb.WriteString(strings.TrimSpace(splashes) + "\n\n")
	}
	fmt.Fprintf(sb, "**Role:** %s · **Patch:** %s · **Predicted win rate:** %s\n\n",
		perception.Role(rec.Role).Label(), rec.Patch, rec.WinRatePrediction)
}

func (r *Renderer) runeLine(name string) string {
	return "- " + image(name, r.assets.ResolveRuneIcon(name)) + name + "\n"
}

func (r *Renderer) writeRunes(sb *strings.Builder, runes analysis.Runes) {
	sb.WriteString("## Optimal Runes\n\n")
	fmt.Fprintf(sb, "**Keystone:** %s%s\n\n", image(runes.Keystone, r.assets.ResolveRuneIcon(runes.Keystone)), runes.Keystone)

	groups := []struct {
		title string
		names []string
	}{
		{"Primary", runes.PrimaryTree},
		{"Secondary", runes.SecondaryTree},
		{"Shards", runes.Shards},
	}
	for _, g := range groups {
		if len(g.names) == 0 {
			continue
		}
		fmt.Fprintf(sb, "**%s**\n\n", g.title)
		for _, name := range g.names {
			sb.WriteString(r.runeLine(name))
		}
		sb.WriteString("\n")
	}
	if runes.Explanation != "" {
		fmt.Fprintf(sb, "> %s\n\n", runes.Explanation)
	}
}

func (r *Renderer) writeBuild(sb *strings.Builder, build analysis.Build) {
	sb.WriteString("## Mathematically Efficient Build\n\n")

	groups := []struct {
		title   string
		entries []analysis.BuildEntry
	}{
		{"Starting", build.Starting},
		{"Core", build.Core},
		{"Situational", build.Situational},
	}
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		fmt.Fprintf(sb, "### %s\n\n", g.title)
		for _, e := range g.entries {
			fmt.Fprintf(sb, "- %s**%s**", image(e.Name, r.assets.ResolveItemIcon(e.Name)), e.Name)
			if e.Reason != "" {
				fmt.Fprintf(sb, ": %s", e.Reason)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if build.Explanation != "" {
		fmt.Fprintf(sb, "> %s\n\n", build.Explanation)
	}
}

func (r *Renderer) writeSkills(ctx context.Context, sb *strings.Builder, champion string, skills analysis.Skills) {
	sb.WriteString("## Skill Optimization\n\n")
	if len(skills.MaxOrder) > 0 {
		steps := make([]string, len(skills.MaxOrder))
		for i, slot := range skills.MaxOrder {
			steps[i] = image(slot, r.assets.ResolveAbilityIcon(ctx, champion, slot)) + slot
		}
		fmt.Fprintf(sb, "**Max order:** %s\n\n", strings.Join(steps, " > "))
	}
	if skills.Explanation != "" {
		sb.WriteString(skills.Explanation + "\n\n")
	}
}

func writeMath(sb *strings.Builder, m analysis.MathAnalysis) {
	sb.WriteString("## Trading Math\n\n")
	if m.TradingPattern != "" {
		fmt.Fprintf(sb, "**Trading pattern:** %s\n\n", m.TradingPattern)
	}
	if m.EfficiencyStats != "" {
		fmt.Fprintf(sb, "**Efficiency:** %s\n\n", m.EfficiencyStats)
	}
}

// bar draws a 0-100 value as a fixed-width gauge. Out-of-range values are
// clamped for display only.
func bar(v float64) string {
	n := int(math.Round(math.Max(0, math.Min(100, v)) / 100 * barWidth))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

func writePowerCurve(sb *strings.Builder, curve []analysis.PowerPoint) {
	if len(curve) == 0 {
		return
	}
	sb.WriteString("## Matchup Power Curve\n\n")
	sb.WriteString("| Minute | My power | Enemy power | Edge |\n")
	sb.WriteString("|---:|---|---|:---:|\n")
	for _, p := range curve {
		edge := "="
		switch {
		case p.MyPower > p.EnemyPower:
			edge = "▲"
		case p.MyPower < p.EnemyPower:
			edge = "▼"
		}
		fmt.Fprintf(sb, "| %g | `%s` %g | `%s` %g | %s |\n",
			p.Time, bar(p.MyPower), p.MyPower, bar(p.EnemyPower), p.EnemyPower, edge)
	}
	sb.WriteString("\n")
}

func (r *Renderer) writeSources(sb *strings.Builder, citations []analysis.Citation) {
	if len(citations) == 0 {
		return
	}
	sb.WriteString("## Data Sources\n\n")
	for _, c := range citations {
		title := c.Title
		if title == "" {
			title = c.URL
		}
		fmt.Fprintf(sb, "- [%s](%s)\n", title, c.URL)
	}
	sb.WriteString("\n")
}
