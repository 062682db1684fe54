// Package domain holds the journey engine: stage classification, step
// resolution, deal attribution, journey assembly, the performance rollup and
// the dashboard funnel. Everything here is pure and total; no function in this
// package returns an error or performs I/O.
package domain

import "strings"

// Bucket maps a stage to the keywords that select it. A keyword matches when
// it is a substring of the lower-cased input.
type Bucket struct {
	Stage    string
	Keywords []string
}

// StageClassifier buckets free-text status strings from upstream tools.
// Buckets are tested in order and the first match wins, so a string carrying
// keywords from several buckets lands in whichever bucket is listed first.
type StageClassifier struct {
	buckets  []Bucket
	fallback string
}

// NewStageClassifier builds a classifier. Keywords are lower-cased and blank
// keywords dropped; the input buckets are not retained.
func NewStageClassifier(fallback string, buckets ...Bucket) *StageClassifier {
	copied := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		keywords := make([]string, 0, len(b.Keywords))
		for _, k := range b.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		copied = append(copied, Bucket{Stage: b.Stage, Keywords: keywords})
	}
	return &StageClassifier{buckets: copied, fallback: fallback}
}

// Classify returns the stage for raw, or the fallback when nothing matches.
func (c *StageClassifier) Classify(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return c.fallback
	}
	for _, b := range c.buckets {
		for _, k := range b.Keywords {
			if strings.Contains(normalized, k) {
				return b.Stage
			}
		}
	}
	return c.fallback
}

// ClassifyPtr classifies an optional value; nil is treated as empty.
func (c *StageClassifier) ClassifyPtr(raw *string) string {
	if raw == nil {
		return c.fallback
	}
	return c.Classify(*raw)
}

// Fallback returns the stage used when no keyword matches.
func (c *StageClassifier) Fallback() string {
	return c.fallback
}

// Stages lists every stage the classifier can return, in test order, with the
// fallback appended when it has no bucket of its own.
func (c *StageClassifier) Stages() []string {
	stages := make([]string, 0, len(c.buckets)+1)
	hasFallback := false
	for _, b := range c.buckets {
		stages = append(stages, b.Stage)
		if b.Stage == c.fallback {
			hasFallback = true
		}
	}
	if !hasFallback {
		stages = append(stages, c.fallback)
	}
	return stages
}

// Canonical journey stages.
const (
	StageProspecting = "prospecting"
	StageEngaged     = "engaged"
	StageMeeting     = "meeting"
	StageProposal    = "proposal"
	StageWon         = "won"
	StageLost        = "lost"
)

var (
	wonKeywords  = []string{"won", "customer", "closed_won"}
	lostKeywords = []string{"lost", "closed_lost", "churn", "disqualified"}
)

// JourneyStages is the canonical stage classifier for lead statuses.
var JourneyStages = NewStageClassifier(StageProspecting,
	Bucket{Stage: StageWon, Keywords: wonKeywords},
	Bucket{Stage: StageLost, Keywords: lostKeywords},
	Bucket{Stage: StageProposal, Keywords: []string{"proposal", "quote", "negotiat", "contract"}},
	Bucket{Stage: StageMeeting, Keywords: []string{"meeting", "demo", "call_booked", "appointment"}},
	Bucket{Stage: StageEngaged, Keywords: []string{"engaged", "replied", "contacted", "opened", "interested"}},
	Bucket{Stage: StageProspecting, Keywords: []string{"new", "prospect", "lead", "enriched"}},
)

// ClassifyStatus maps any upstream status string onto a canonical journey stage.
func ClassifyStatus(raw string) string {
	return JourneyStages.Classify(raw)
}

// dealOutcomes classifies the stage text of a closed deal.
var dealOutcomes = NewStageClassifier(string(StatusPipeline),
	Bucket{Stage: string(StatusWon), Keywords: wonKeywords},
	Bucket{Stage: string(StatusLost), Keywords: lostKeywords},
)

// leadOutcomes classifies a lead's own manual status when it has no deals.
// Only the literal words are honoured here.
var leadOutcomes = NewStageClassifier(string(StatusPipeline),
	Bucket{Stage: string(StatusWon), Keywords: []string{"won"}},
	Bucket{Stage: string(StatusLost), Keywords: []string{"lost"}},
)
