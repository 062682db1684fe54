package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Step names used when a journey is synthesized from related records.
const (
	UnknownSource   = "Unknown"
	StepOutbound    = "Outbound"
	StepCRM         = "CRM"
	StepBilling     = "Stripe"
	PendingOutbound = "Pending"
)

// StepIssueReporter is told about stored step payloads that could not be used.
type StepIssueReporter interface {
	MalformedJourneySteps(leadID string, err error)
}

// NormalizeSource returns the trimmed source and whether it is known.
// Nil, blank and "Unknown" (any case) are unknown.
func NormalizeSource(source *string) (string, bool) {
	s := strings.TrimSpace(deref(source))
	if s == "" || strings.EqualFold(s, UnknownSource) {
		return UnknownSource, false
	}
	return s, true
}

// stepEntry accepts either a bare tool name or an object written by older
// sync agents: {"name": "Clay"}, {"tool": "Clay"} or {"provider": "clay"}.
type stepEntry string

func (s *stepEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = stepEntry(strings.TrimSpace(name))
		return nil
	}

	var obj struct {
		Name     string `json:"name"`
		Tool     string `json:"tool"`
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("journey step must be a string or an object: %w", err)
	}
	for _, candidate := range []string{obj.Name, obj.Tool, obj.Provider} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			*s = stepEntry(trimmed)
			return nil
		}
	}
	*s = ""
	return nil
}

// ParseJourneySteps decodes a stored step payload. A nil, blank, null or empty
// payload yields (nil, nil). Blank entries are dropped. Lists written by sync
// jobs are not length bounded; any non-empty list is returned whole.
func ParseJourneySteps(raw *string) ([]string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	var entries []stepEntry
	if err := json.Unmarshal([]byte(*raw), &entries); err != nil {
		return nil, err
	}

	steps := make([]string, 0, len(entries))
	for _, e := range entries {
		if e != "" {
			steps = append(steps, string(e))
		}
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return steps, nil
}

// ResolveSteps determines the ordered tools a lead passed through.
//
// A curated list stored on the lead wins, with the known source prepended when
// the list does not already start with it. Otherwise the path is synthesized:
// source, then Outbound if enrolled in a sequence, CRM if any deal exists and
// Stripe if the outcome is won. The result is never empty.
func ResolveSteps(lead Lead, deals []Deal, enrollments []SequenceEnrollment, status Status, reporter StepIssueReporter) []string {
	source, known := NormalizeSource(lead.Source)

	stored, err := ParseJourneySteps(lead.JourneySteps)
	if err != nil && reporter != nil {
		reporter.MalformedJourneySteps(lead.ID, err)
	}
	if err == nil && len(stored) > 0 {
		if known && stored[0] != source {
			return append([]string{source}, stored...)
		}
		return stored
	}

	steps := []string{source}
	if len(enrollments) > 0 {
		steps = append(steps, StepOutbound)
	}
	if len(deals) > 0 {
		steps = append(steps, StepCRM)
	}
	if status == StatusWon {
		steps = append(steps, StepBilling)
	}
	return steps
}
