package domain

import "strings"

// Attribution is the outcome and monetary value credited to a lead.
type Attribution struct {
	Status      Status
	AmountCents *int64
	Currency    string
	Deal        *Deal
}

// ClassifyDeal returns the outcome of a single deal. An open deal is always
// pipeline. A closed deal whose stage matches neither the won nor the lost
// keywords is also pipeline.
func ClassifyDeal(d Deal) Status {
	if d.ClosedAt == nil {
		return StatusPipeline
	}
	return Status(dealOutcomes.ClassifyPtr(d.Stage))
}

// DedupeDeals merges deal lists fetched through different relations, keeping
// the first occurrence of each id.
func DedupeDeals(groups ...[]Deal) []Deal {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	seen := make(map[string]struct{}, total)
	out := make([]Deal, 0, total)
	for _, g := range groups {
		for _, d := range g {
			key := d.ID.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// LatestDeal picks the most recently updated deal. Ties go to the lowest id so
// the choice does not depend on fetch order.
func LatestDeal(deals []Deal) (Deal, bool) {
	if len(deals) == 0 {
		return Deal{}, false
	}
	best := deals[0]
	for _, d := range deals[1:] {
		switch {
		case d.UpdatedAt.After(best.UpdatedAt):
			best = d
		case d.UpdatedAt.Equal(best.UpdatedAt) && strings.Compare(d.ID.String(), best.ID.String()) < 0:
			best = d
		}
	}
	return best, true
}

// ResolveAttribution derives the lead's outcome from its related deals, or
// from its own manual status when it has none.
func ResolveAttribution(leadStatus *string, deals []Deal) Attribution {
	latest, ok := LatestDeal(DedupeDeals(deals))
	if !ok {
		return Attribution{Status: Status(leadOutcomes.ClassifyPtr(leadStatus))}
	}

	attribution := Attribution{
		Status:      ClassifyDeal(latest),
		AmountCents: latest.AmountCents,
		Currency:    strings.ToUpper(strings.TrimSpace(deref(latest.Currency))),
		Deal:        &latest,
	}
	return attribution
}
