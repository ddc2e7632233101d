package audit

import (
	"fmt"
	"strings"
)

// MaxScore is 17 checklist items at up to 2 points each.
const MaxScore = 34

type RiskBand struct {
	Min, Max int
	Level    string
	Icon     string
	Example  string
}

// riskBands is the fixed scoring-to-risk mapping the analysis service must
// reproduce. Boundaries are inclusive on both ends.
var riskBands = []RiskBand{
	{Min: 0, Max: 15, Level: "Critical Risk", Icon: "🔴", Example: "score 10 → Critical Risk 🔴"},
	{Min: 16, Max: 24, Level: "High Risk", Icon: "🟠", Example: "score 20 → High Risk 🟠"},
	{Min: 25, Max: 30, Level: "Moderate Risk", Icon: "🟡", Example: "score 28 → Moderate Risk 🟡"},
	{Min: 31, Max: MaxScore, Level: "Low Risk", Icon: "🟢", Example: "score 32 → Low Risk 🟢"},
}

// RiskFor maps a total score to its compliance level and icon.
func RiskFor(score int) (level, icon string) {
	for _, band := range riskBands {
		if score >= band.Min && score <= band.Max {
			return band.Level, band.Icon
		}
	}
	// Out-of-range scores should not occur; treat them as the worst band.
	return riskBands[0].Level, riskBands[0].Icon
}

// LowRiskPermitted reports whether a "Low Risk" verdict is allowed at all:
// any cookie set before consent rules it out regardless of the score.
func LowRiskPermitted(cookiesSetBeforeConsent int) bool {
	return cookiesSetBeforeConsent == 0
}

// renderThresholds produces the mandatory scoring-threshold lines of the
// prompt from the single band table, so prompt and code cannot drift.
func renderThresholds() string {
	var b strings.Builder
	for _, band := range riskBands {
		fmt.Fprintf(&b, "- Score %d-%d: compliance_level = %q, risk_icon = %q (Example: %s)\n",
			band.Min, band.Max, band.Level, band.Icon, band.Example)
	}
	return b.String()
}
