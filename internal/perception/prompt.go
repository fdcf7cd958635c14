package perception

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the analysis prompt for a matchup. It asks for a
// single fenced json block carrying every required record key.
func BuildPrompt(m Matchup) string {
	var sb strings.Builder

	sb.WriteString("You are a world-class League of Legends analyst and mathematician.\n")
	fmt.Fprintf(&sb, "Analyze the matchup: %s (me) vs %s (enemy) in the %s role.\n\n", m.Champion, m.Opponent, m.Role)
	sb.WriteString("Use the latest available data (current patch).\n\n")
	sb.WriteString("Your goal is to provide a MATHEMATICALLY OPTIMIZED build and strategy.\n\n")
	sb.WriteString("IMPORTANT: For Item and Rune names, use the exact English names as they appear in the game ")
	sb.WriteString("(e.g. \"Blade of the Ruined King\" not \"BORK\", \"Press the Attack\" not \"PTA\") ")
	sb.WriteString("so they can be mapped to icons programmatically.\n\n")
	sb.WriteString("Output a strictly valid JSON object inside a markdown code block (```json ... ```).\n")
	sb.WriteString("The JSON must match this structure exactly:\n")
	sb.WriteString(schemaFor(m))
	sb.WriteString("\nMake sure the reasoning is heavy on MATH and DATA ")
	sb.WriteString("(e.g., \"BotRK deals 12% current HP which is better than X lethality against this HP stacker\").\n")

	return sb.String()
}

func schemaFor(m Matchup) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	fmt.Fprintf(&sb, "  \"champion\": %q,\n", m.Champion)
	fmt.Fprintf(&sb, "  \"opponent\": %q,\n", m.Opponent)
	fmt.Fprintf(&sb, "  \"role\": %q,\n", string(m.Role))
	sb.WriteString(`  "patch": "string (e.g. 14.x or 15.x)",
  "winRatePrediction": "string (e.g. 48%)",
  "runes": {
    "keystone": "string",
    "primaryTree": ["string", "string", "string"],
    "secondaryTree": ["string", "string"],
    "shards": ["string", "string", "string"],
    "explanation": "string (Explain using numbers why this is optimal, e.g. damage values, cooldowns)"
  },
  "build": {
    "starting": [{"name": "string", "reason": "string (math based)"}],
    "core": [{"name": "string", "reason": "string (math/gold efficiency)"}],
    "situational": [{"name": "string", "reason": "string"}],
    "explanation": "string (General build math)"
  },
  "skills": {
    "maxOrder": ["string (e.g. Q)", "string", "string"],
    "explanation": "string (Why max this first? Cite base damage increases per rank vs scaling)"
  },
  "mathAnalysis": {
    "tradingPattern": "string (How to trade based on CD and range)",
    "efficiencyStats": "string (Specific stats like Gold Efficiency or DPS comparisons)"
  },
  "powerCurve": [
`)
	for i, minute := range powerCurveMinutes {
		sep := ","
		if i == len(powerCurveMinutes)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "    {\"time\": %d, \"myPower\": number (0-100), \"enemyPower\": number (0-100)}%s\n", minute, sep)
	}
	sb.WriteString("  ]\n}\n")
	return sb.String()
}

// powerCurveMinutes are the sample points requested for the power curve.
var powerCurveMinutes = []int{0, 5, 10, 15, 20, 25, 30, 35}
