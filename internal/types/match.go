package types

// MatchReason is one itemized line of scoring evidence: which criterion,
// the normalized weight it carried, the 0.0-1.0 sub-score it earned, and
// a human-readable explanation.
type MatchReason struct {
	Criterion string  `json:"criterion"`
	Weight    float64 `json:"weight"`
	Score     float64 `json:"score"`
	Detail    string  `json:"detail"`
}

// MatchResult is the scoring engine's output for one listing: a 0-100
// score and the ordered reasons behind it. The engine never persists it;
// the orchestrator captures it on the proposal at generation time.
type MatchResult struct {
	Score   float64       `json:"score"`
	Reasons []MatchReason `json:"reasons"`
}
