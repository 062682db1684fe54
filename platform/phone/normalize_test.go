package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		input  string
		region string
		want   string
	}{
		{"+49 30 901820", "", "+4930901820"},
		{"030 901820", "DE", "+4930901820"},
		{"  ", "", ""},
		{"not a number", "DE", "not a number"},
	}

	for _, tc := range tests {
		if got := NormalizeE164(tc.input, tc.region); got != tc.want {
			t.Errorf("NormalizeE164(%q, %q) = %q, want %q", tc.input, tc.region, got, tc.want)
		}
	}
}
