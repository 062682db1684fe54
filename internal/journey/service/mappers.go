package service

import (
	"gtm_backend/internal/journey/domain"
	"gtm_backend/internal/journey/transport"
)

func toJourneyResponse(j domain.Journey) transport.JourneyResponse {
	return transport.JourneyResponse{
		ID:       j.ID,
		Source:   j.Source,
		Outbound: j.Outbound,
		Status:   string(j.Status),
		MRR:      j.MRR,
		Steps:    j.Steps,
	}
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

func toPerformanceResponse(p domain.Performance) transport.PerformanceResponse {
	tools := make([]transport.ToolPerformanceResponse, 0, len(p.Tools))
	for _, t := range p.Tools {
		tools = append(tools, transport.ToolPerformanceResponse{
			ID:              t.ID,
			Name:            t.Name,
			Category:        string(t.Category),
			Connected:       t.Connected,
			LeadsInfluenced: t.LeadsInfluenced,
			CustomersWon:    t.CustomersWon,
			MRR:             centsToUnits(t.MRRCents),
			MRRFormatted:    t.MRRFormatted,
		})
	}

	workflows := make([]transport.WorkflowResponse, 0, len(p.TopWorkflows))
	for _, w := range p.TopWorkflows {
		workflows = append(workflows, transport.WorkflowResponse{
			ID:           w.ID,
			Name:         w.Name,
			Steps:        w.Steps,
			CustomersWon: w.CustomersWon,
			MRR:          centsToUnits(w.MRRCents),
			MRRFormatted: w.MRRFormatted,
		})
	}

	return transport.PerformanceResponse{
		Tools: tools,
		Summary: transport.PerformanceSummaryResponse{
			ProspectingCount:     p.Summary.ProspectingCount,
			OutboundCount:        p.Summary.OutboundCount,
			TotalLeadsInfluenced: p.Summary.TotalLeadsInfluenced,
			TotalCustomersWon:    p.Summary.TotalCustomersWon,
			TotalMRR:             centsToUnits(p.Summary.TotalMRRCents),
			TotalMRRFormatted:    p.Summary.TotalMRRFormatted,
		},
		TopWorkflows: workflows,
	}
}

func toFunnelResponse(f domain.Funnel) transport.FunnelResponse {
	stages := make([]transport.FunnelStageResponse, 0, len(f.Stages))
	for _, s := range f.Stages {
		stages = append(stages, transport.FunnelStageResponse{ID: s.ID, Label: s.Label, Count: s.Count})
	}
	return transport.FunnelResponse{Stages: stages, Total: f.Total}
}
