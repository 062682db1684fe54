package domain

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type recordingReporter struct {
	leadIDs []string
}

func (r *recordingReporter) MalformedJourneySteps(leadID string, _ error) {
	r.leadIDs = append(r.leadIDs, leadID)
}

func strPtr(s string) *string { return &s }

func TestResolveStepsStored(t *testing.T) {
	tests := []struct {
		name   string
		source *string
		stored string
		want   []string
	}{
		{"matches source", strPtr("Clay"), `["Clay","HeyReach"]`, []string{"Clay", "HeyReach"}},
		{"prepends known source", strPtr("Clay"), `["HeyReach","HubSpot"]`, []string{"Clay", "HeyReach", "HubSpot"}},
		{"unknown source not prepended", nil, `["HeyReach"]`, []string{"HeyReach"}},
		{"literal Unknown not prepended", strPtr("unknown"), `["HeyReach"]`, []string{"HeyReach"}},
		{"object entries", strPtr("Apollo"), `[{"name":"Apollo"},{"tool":"lemlist"},{"provider":"hubspot"}]`, []string{"Apollo", "lemlist", "hubspot"}},
		{"blank entries dropped", strPtr("Clay"), `["Clay"," ",null,{"other":"x"},"Stripe"]`, []string{"Clay", "Stripe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &recordingReporter{}
			lead := Lead{ID: "RVN-00000001", Source: tt.source, JourneySteps: strPtr(tt.stored)}
			got := ResolveSteps(lead, nil, nil, StatusPipeline, rep)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ResolveSteps() = %v, want %v", got, tt.want)
			}
			if len(rep.leadIDs) != 0 {
				t.Fatalf("unexpected malformed report for %s", tt.stored)
			}
		})
	}
}

func TestResolveStepsSynthesized(t *testing.T) {
	deal := Deal{ID: uuid.New(), UpdatedAt: time.Now()}
	enrollment := SequenceEnrollment{ID: uuid.New(), ContactID: uuid.New()}

	tests := []struct {
		name        string
		source      *string
		deals       []Deal
		enrollments []SequenceEnrollment
		status      Status
		want        []string
	}{
		{"source only", strPtr("Clay"), nil, nil, StatusPipeline, []string{"Clay"}},
		{"missing source", nil, nil, nil, StatusPipeline, []string{UnknownSource}},
		{"blank source", strPtr("  "), nil, nil, StatusLost, []string{UnknownSource}},
		{"enrolled", strPtr("Apollo"), nil, []SequenceEnrollment{enrollment}, StatusPipeline, []string{"Apollo", StepOutbound}},
		{"deal", strPtr("Clay"), []Deal{deal}, nil, StatusPipeline, []string{"Clay", StepCRM}},
		{"full path", strPtr("Clay"), []Deal{deal}, []SequenceEnrollment{enrollment}, StatusWon, []string{"Clay", StepOutbound, StepCRM, StepBilling}},
		{"won without deal", strPtr("Clay"), nil, nil, StatusWon, []string{"Clay", StepBilling}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := Lead{ID: "RVN-00000002", Source: tt.source}
			got := ResolveSteps(lead, tt.deals, tt.enrollments, tt.status, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ResolveSteps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveStepsEmptyStoredFallsBack(t *testing.T) {
	for _, stored := range []string{"", "   ", "[]", "null", `[""]`} {
		rep := &recordingReporter{}
		lead := Lead{ID: "RVN-00000003", Source: strPtr("Clay"), JourneySteps: strPtr(stored)}
		got := ResolveSteps(lead, nil, nil, StatusPipeline, rep)
		if !reflect.DeepEqual(got, []string{"Clay"}) {
			t.Errorf("stored %q: got %v", stored, got)
		}
		if len(rep.leadIDs) != 0 {
			t.Errorf("stored %q should not be reported as malformed", stored)
		}
	}
}

func TestResolveStepsMalformedIsReportedAndSynthesized(t *testing.T) {
	for _, stored := range []string{`{not json`, `"Clay"`, `[1,2]`, `{"steps":["Clay"]}`} {
		rep := &recordingReporter{}
		lead := Lead{ID: "RVN-BADJSON0", Source: strPtr("Clay"), JourneySteps: strPtr(stored)}
		got := ResolveSteps(lead, nil, nil, StatusPipeline, rep)
		if !reflect.DeepEqual(got, []string{"Clay"}) {
			t.Errorf("stored %q: got %v", stored, got)
		}
		if len(rep.leadIDs) != 1 || rep.leadIDs[0] != "RVN-BADJSON0" {
			t.Errorf("stored %q: expected one report, got %v", stored, rep.leadIDs)
		}
	}
}

func TestParseJourneyStepsKeepsLongSyncedList(t *testing.T) {
	tools := make([]string, 21)
	for i := range tools {
		tools[i] = fmt.Sprintf(`"Tool%d"`, i)
	}
	tools[0] = `"Clay"`
	raw := "[" + strings.Join(tools, ",") + "]"

	steps, err := ParseJourneySteps(&raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 21 || steps[0] != "Clay" || steps[20] != "Tool20" {
		t.Fatalf("got %d steps %v, want all 21 in order", len(steps), steps)
	}
}

func TestResolveStepsUsesLongCuratedList(t *testing.T) {
	tools := []string{`"Clay"`}
	for i := 1; i < 21; i++ {
		tools = append(tools, fmt.Sprintf(`"Tool%d"`, i))
	}
	raw := "[" + strings.Join(tools, ",") + "]"
	reporter := &recordingReporter{}

	got := ResolveSteps(Lead{ID: "RVN-0000AAAA", Source: strPtr("Clay"), JourneySteps: &raw}, nil, nil, StatusPipeline, reporter)

	if len(got) != 21 || got[0] != "Clay" {
		t.Fatalf("got %d steps %v, want the stored 21", len(got), got)
	}
	if len(reporter.leadIDs) != 0 {
		t.Fatalf("long list must not be reported as malformed: %v", reporter.leadIDs)
	}
}
