package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " dir/resume.pdf ", want: "dir_resume.pdf"},
		{in: `a\b.txt`, want: "a_b.txt"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestUnderscoreName(t *testing.T) {
	if got := UnderscoreName("Ada M. Lovelace"); got != "Ada_M._Lovelace" {
		t.Fatalf("unexpected %q", got)
	}
	if got := UnderscoreName(`a/b "c"`); got != "ab_c" {
		t.Fatalf("unexpected %q", got)
	}
	if got := UnderscoreName("  "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
