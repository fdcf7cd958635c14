// Package analysis turns the free-form text of a grounded model answer into
// a validated matchup Record and a list of source citations.
//
// Extraction runs in two stages: a fenced ```json block is tried first,
// then the widest {...} span in the text. Both stages are pure and never
// panic on malformed input. Citation recovery is independent of extraction.
package analysis

// BuildEntry is one recommended item with its justification.
type BuildEntry struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Runes is the recommended rune page.
type Runes struct {
	Keystone      string   `json:"keystone"`
	PrimaryTree   []string `json:"primaryTree"`
	SecondaryTree []string `json:"secondaryTree"`
	Shards        []string `json:"shards"`
	Explanation   string   `json:"explanation"`
}

// Build is the recommended item path.
type Build struct {
	Starting    []BuildEntry `json:"starting"`
	Core        []BuildEntry `json:"core"`
	Situational []BuildEntry `json:"situational"`
	Explanation string       `json:"explanation"`
}

// Skills is the ability max order, e.g. ["Q", "E", "W"].
type Skills struct {
	MaxOrder    []string `json:"maxOrder"`
	Explanation string   `json:"explanation"`
}

// MathAnalysis carries the numeric reasoning behind the recommendation.
type MathAnalysis struct {
	TradingPattern  string `json:"tradingPattern"`
	EfficiencyStats string `json:"efficiencyStats"`
}

// PowerPoint is one sample of the power curve. Time is in minutes and the
// power values are on a 0-100 scale; ranges are not enforced.
type PowerPoint struct {
	Time       float64 `json:"time"`
	MyPower    float64 `json:"myPower"`
	EnemyPower float64 `json:"enemyPower"`
}

// Record is a fully validated matchup analysis.
type Record struct {
	Champion          string       `json:"champion"`
	Opponent          string       `json:"opponent"`
	Role              string       `json:"role"`
	Patch             string       `json:"patch"`
	WinRatePrediction string       `json:"winRatePrediction"`
	Runes             Runes        `json:"runes"`
	Build             Build        `json:"build"`
	Skills            Skills       `json:"skills"`
	MathAnalysis      MathAnalysis `json:"mathAnalysis"`
	PowerCurve        []PowerPoint `json:"powerCurve"`
}

// Citation is one web source consulted while producing an answer.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RequiredKeys lists the top-level keys every record must carry.
var RequiredKeys = []string{
	"champion",
	"opponent",
	"role",
	"patch",
	"winRatePrediction",
	"runes",
	"build",
	"skills",
	"mathAnalysis",
	"powerCurve",
}
