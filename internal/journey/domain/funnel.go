package domain

// Dashboard funnel stages, in display order.
const (
	FunnelNew       = "new"
	FunnelContacted = "contacted"
	FunnelReplied   = "replied"
	FunnelMeeting   = "meeting"
	FunnelCustomer  = "customer"
	FunnelChurned   = "churned"
)

var funnelOrder = []struct {
	id    string
	label string
}{
	{FunnelNew, "New"},
	{FunnelContacted, "Contacted"},
	{FunnelReplied, "Replied"},
	{FunnelMeeting, "Meeting"},
	{FunnelCustomer, "Customer"},
	{FunnelChurned, "Churned"},
}

// DashboardFunnel buckets lead statuses for the dashboard chart. It is kept
// apart from JourneyStages because the dashboard groups statuses differently
// (e.g. "contacted" is its own column there, not part of engaged).
var DashboardFunnel = NewStageClassifier(FunnelNew,
	Bucket{Stage: FunnelCustomer, Keywords: []string{"won", "customer", "closed_won", "paid"}},
	Bucket{Stage: FunnelChurned, Keywords: []string{"lost", "closed_lost", "churn", "disqualified", "unsubscribed", "bounced"}},
	Bucket{Stage: FunnelMeeting, Keywords: []string{"meeting", "demo", "call_booked", "appointment", "proposal"}},
	Bucket{Stage: FunnelReplied, Keywords: []string{"replied", "interested", "engaged", "responded"}},
	Bucket{Stage: FunnelContacted, Keywords: []string{"contacted", "sent", "sequence", "opened", "outbound"}},
	Bucket{Stage: FunnelNew, Keywords: []string{"new", "prospect", "lead", "enriched", "imported"}},
)

// StatusCount is the number of leads sharing one raw status value.
type StatusCount struct {
	Status *string
	Count  int
}

// FunnelStage is one column of the dashboard funnel.
type FunnelStage struct {
	ID    string
	Label string
	Count int
}

// Funnel is the bucketed dashboard view.
type Funnel struct {
	Stages []FunnelStage
	Total  int
}

// BucketFunnel folds raw status counts into the six dashboard stages. Every
// stage is present, in display order, even when empty.
func BucketFunnel(counts []StatusCount) Funnel {
	totals := make(map[string]int, len(funnelOrder))
	total := 0
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		totals[DashboardFunnel.ClassifyPtr(c.Status)] += c.Count
		total += c.Count
	}

	stages := make([]FunnelStage, 0, len(funnelOrder))
	for _, s := range funnelOrder {
		stages = append(stages, FunnelStage{ID: s.id, Label: s.label, Count: totals[s.id]})
	}
	return Funnel{Stages: stages, Total: total}
}
