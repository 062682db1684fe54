package domain

import (
	"math"
	"strings"

	"gtm_backend/internal/integrations/catalog"
)

// influenceRate is the share of leads assumed to have been touched by the
// connected tool stack.
const influenceRate = 0.6

// PerformanceInput is everything the rollup needs for one workspace.
type PerformanceInput struct {
	LeadCount int
	// WonDeals may contain any closed deals; only those classified as won count.
	WonDeals           []Deal
	ConnectedProviders []string
	Currency           string
}

// ToolPerformance is one row of the per-tool rollup.
type ToolPerformance struct {
	ID              string
	Name            string
	Category        catalog.Category
	Connected       bool
	LeadsInfluenced int
	CustomersWon    int
	MRRCents        int64
	MRRFormatted    string
}

// PerformanceSummary holds workspace-wide totals.
type PerformanceSummary struct {
	ProspectingCount     int
	OutboundCount        int
	TotalLeadsInfluenced int
	TotalCustomersWon    int
	TotalMRRCents        int64
	TotalMRRFormatted    string
}

// Workflow summarizes a tool chain that produced revenue.
type Workflow struct {
	ID           string
	Name         string
	Steps        []string
	CustomersWon int
	MRRCents     int64
	MRRFormatted string
}

// Performance is the full rollup.
type Performance struct {
	Tools        []ToolPerformance
	Summary      PerformanceSummary
	TopWorkflows []Workflow
}

// Aggregator computes the per-tool rollup against a tool catalog.
type Aggregator struct {
	catalog *catalog.Catalog
	money   MoneyFormatter
}

// NewAggregator creates an Aggregator. A nil catalog uses the embedded one.
func NewAggregator(c *catalog.Catalog, money MoneyFormatter) *Aggregator {
	if c == nil {
		c = catalog.Default()
	}
	return &Aggregator{catalog: c, money: money}
}

// Aggregate rolls won revenue and influenced leads up to tools.
//
// Exact per-tool attribution is not available, so totals are split evenly:
// influenced leads are round(leadCount*0.6), half goes to each of the
// prospecting and outbound categories, and each category's half is divided
// evenly across its effective tools. Customers and MRR are split the same
// way. A category with no connected tools uses its whole catalog.
func (a *Aggregator) Aggregate(in PerformanceInput) Performance {
	connected := a.connectedSet(in.ConnectedProviders)

	prospecting, prospectingConnected := a.effectiveTools(catalog.CategoryProspecting, connected)
	outbound, outboundConnected := a.effectiveTools(catalog.CategoryOutbound, connected)

	won := wonDeals(in.WonDeals)
	var totalMRR int64
	for _, d := range won {
		if d.AmountCents != nil {
			totalMRR += *d.AmountCents
		}
	}
	currency := a.currency(in.Currency, won)

	approxLeads := int(math.Round(float64(max(in.LeadCount, 0)) * influenceRate))
	halfLeads := approxLeads / 2
	halfCustomers := len(won) / 2
	halfMRR := totalMRR / 2

	tools := make([]ToolPerformance, 0, len(prospecting)+len(outbound))
	for _, group := range [][]catalog.Tool{prospecting, outbound} {
		n := max(len(group), 1)
		for _, t := range group {
			share := halfMRR / int64(n)
			_, isConnected := connected[t.ID]
			tools = append(tools, ToolPerformance{
				ID:              t.ID,
				Name:            t.Name,
				Category:        t.Category,
				Connected:       isConnected,
				LeadsInfluenced: halfLeads / n,
				CustomersWon:    halfCustomers / n,
				MRRCents:        share,
				MRRFormatted:    a.format(share, currency),
			})
		}
	}

	perf := Performance{
		Tools: tools,
		Summary: PerformanceSummary{
			ProspectingCount:     prospectingConnected,
			OutboundCount:        outboundConnected,
			TotalLeadsInfluenced: approxLeads,
			TotalCustomersWon:    len(won),
			TotalMRRCents:        totalMRR,
			TotalMRRFormatted:    a.format(totalMRR, currency),
		},
		TopWorkflows: []Workflow{},
	}

	if totalMRR > 0 {
		steps := make([]string, 0, 3)
		if len(prospecting) > 0 {
			steps = append(steps, prospecting[0].Name)
		}
		if len(outbound) > 0 {
			steps = append(steps, outbound[0].Name)
		}
		steps = append(steps, "Won")
		perf.TopWorkflows = append(perf.TopWorkflows, Workflow{
			ID:           "won-revenue",
			Name:         strings.Join(steps, " → "),
			Steps:        steps,
			CustomersWon: len(won),
			MRRCents:     totalMRR,
			MRRFormatted: a.format(totalMRR, currency),
		})
	}
	return perf
}

func (a *Aggregator) connectedSet(providers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		if id, ok := a.catalog.Resolve(p); ok {
			set[id] = struct{}{}
		}
	}
	return set
}

// effectiveTools returns the connected tools of a category, or the whole
// category when none is connected, plus the connected count.
func (a *Aggregator) effectiveTools(cat catalog.Category, connected map[string]struct{}) ([]catalog.Tool, int) {
	all := a.catalog.ByCategory(cat)
	var picked []catalog.Tool
	for _, t := range all {
		if _, ok := connected[t.ID]; ok {
			picked = append(picked, t)
		}
	}
	if len(picked) == 0 {
		return all, 0
	}
	return picked, len(picked)
}

func (a *Aggregator) currency(requested string, won []Deal) string {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c
	}
	for _, d := range won {
		if c := strings.ToUpper(strings.TrimSpace(deref(d.Currency))); c != "" {
			return c
		}
	}
	return ""
}

func (a *Aggregator) format(cents int64, currency string) string {
	if a.money == nil {
		return ""
	}
	return a.money.FormatCents(cents, currency)
}

func wonDeals(deals []Deal) []Deal {
	var out []Deal
	for _, d := range DedupeDeals(deals) {
		if ClassifyDeal(d) == StatusWon {
			out = append(out, d)
		}
	}
	return out
}
