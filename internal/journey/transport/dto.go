package transport

// ListJourneysQuery binds GET /journeys query parameters.
type ListJourneysQuery struct {
	Limit int `form:"limit" validate:"gte=0"`
}

type JourneyResponse struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Outbound string   `json:"outbound"`
	Status   string   `json:"status"`
	MRR      *string  `json:"mrr,omitempty"`
	Steps    []string `json:"steps"`
}

type JourneyListResponse struct {
	Journeys []JourneyResponse `json:"journeys"`
}

// Monetary fields are in major currency units; *Formatted fields are display strings.
type ToolPerformanceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Connected       bool    `json:"connected"`
	LeadsInfluenced int     `json:"leadsInfluenced"`
	CustomersWon    int     `json:"customersWon"`
	MRR             float64 `json:"mrr"`
	MRRFormatted    string  `json:"mrrFormatted"`
}

type PerformanceSummaryResponse struct {
	ProspectingCount     int     `json:"prospectingCount"`
	OutboundCount        int     `json:"outboundCount"`
	TotalLeadsInfluenced int     `json:"totalLeadsInfluenced"`
	TotalCustomersWon    int     `json:"totalCustomersWon"`
	TotalMRR             float64 `json:"totalMrr"`
	TotalMRRFormatted    string  `json:"totalMrrFormatted"`
}

type WorkflowResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Steps        []string `json:"steps"`
	CustomersWon int      `json:"customersWon"`
	MRR          float64  `json:"mrr"`
	MRRFormatted string   `json:"mrrFormatted"`
}

type PerformanceResponse struct {
	Tools        []ToolPerformanceResponse  `json:"tools"`
	Summary      PerformanceSummaryResponse `json:"summary"`
	TopWorkflows []WorkflowResponse         `json:"topWorkflows"`
}

type FunnelStageResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type FunnelResponse struct {
	Stages []FunnelStageResponse `json:"stages"`
	Total  int                   `json:"total"`
}
