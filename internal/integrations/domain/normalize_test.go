package domain

import (
	"errors"
	"testing"

	"gtm_backend/internal/integrations/catalog"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want ConnectionStatus
	}{
		{"connected", "connected", StatusConnected},
		{"active upper", "ACTIVE", StatusConnected},
		{"enabled padded", "  enabled ", StatusConnected},
		{"bool true", true, StatusConnected},
		{"bool false", false, StatusNotConnected},
		{"json number one", float64(1), StatusConnected},
		{"json number zero", float64(0), StatusNotConnected},
		{"not connected", "not-connected", StatusNotConnected},
		{"disconnected", "disconnected", StatusNotConnected},
		{"empty", "", StatusNotConnected},
		{"nil", nil, StatusNotConnected},
		{"typed", StatusConnected, StatusConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Fatalf("NormalizeStatus(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeResolvesAliases(t *testing.T) {
	tests := []struct {
		provider string
		wantID   string
	}{
		{"clay", "clay"},
		{"Clay.com", "clay"},
		{"Hey Reach", "heyreach"},
		{"google-sheets", "google_sheets"},
		{"Instantly.ai", "instantly"},
	}

	for _, tt := range tests {
		tool, status, err := Normalize(catalog.Default(), tt.provider, "active")
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tt.provider, err)
		}
		if tool.ID != tt.wantID {
			t.Errorf("Normalize(%q) id = %q, want %q", tt.provider, tool.ID, tt.wantID)
		}
		if status != StatusConnected {
			t.Errorf("Normalize(%q) status = %q", tt.provider, status)
		}
	}
}

func TestNormalizeRejectsUnknownProvider(t *testing.T) {
	_, _, err := Normalize(nil, "salesforce", true)
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
