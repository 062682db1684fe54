package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"  closed_won ", 0, "closed_won"},
		{"<b>Meeting</b>\n\tbooked", 0, "Meeting booked"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;engaged", 0, "alert(1)engaged"},
		{"Übergabe an Vertrieb", 5, "Überg"},
	}

	for _, tc := range tests {
		if got := Text(tc.in, tc.max); got != tc.want {
			t.Errorf("Text(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestTextPtrBlankBecomesNil(t *testing.T) {
	blank := " <br/> "
	if TextPtr(&blank, 10) != nil {
		t.Fatal("expected blank input to become nil")
	}
	if TextPtr(nil, 10) != nil {
		t.Fatal("expected nil input to stay nil")
	}
}
