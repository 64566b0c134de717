package domain

import "time"

// ArtifactKind identifies one downloadable output of a run.
type ArtifactKind string

const (
	ArtifactCombinedCSV  ArtifactKind = "combined.csv"
	ArtifactMatchedCSV   ArtifactKind = "matched.csv"
	ArtifactUnmatchedCSV ArtifactKind = "unmatched.csv"
	ArtifactSummaryXLSX  ArtifactKind = "summary.xlsx"
	ArtifactNonOrderXLSX ArtifactKind = "non_order.xlsx"
)

// ArtifactKinds lists every artifact a successful run produces.
var ArtifactKinds = []ArtifactKind{
	ArtifactCombinedCSV,
	ArtifactMatchedCSV,
	ArtifactUnmatchedCSV,
	ArtifactSummaryXLSX,
	ArtifactNonOrderXLSX,
}

// ContentType returns the MIME type used when serving the artifact.
func (k ArtifactKind) ContentType() string {
	switch k {
	case ArtifactSummaryXLSX, ArtifactNonOrderXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// RunCounts summarises row volumes moved through one pipeline run.
type RunCounts struct {
	FulfillmentRows int `json:"fulfillment_rows"`
	CombinedRows    int `json:"combined_rows"`
	MatchedRows     int `json:"matched_rows"`
	UnmatchedRows   int `json:"unmatched_rows"`
	GroupedRows     int `json:"grouped_rows"`
}

// RunResult is the complete outcome of one pipeline invocation. It is a plain
// value returned by the orchestrator and held by the caller for re-download;
// there is no ambient run state.
type RunResult struct {
	ID        string    `json:"id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`

	Counts   RunCounts   `json:"counts"`
	Warnings []string    `json:"warnings"`
	PnL      *PnLSummary `json:"pnl"`

	Artifacts map[ArtifactKind][]byte `json:"-"`
}
