package core

import "testing"

func TestParseInstallmentLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  InstallmentLabel
		ok    bool
	}{
		{"middle of series", "3/5", InstallmentLabel{Current: 3, Total: 5}, true},
		{"first of series", "1/12", InstallmentLabel{Current: 1, Total: 12}, true},
		{"single installment", "1/1", InstallmentLabel{Current: 1, Total: 1}, true},
		{"spaces tolerated", " 2 / 4 ", InstallmentLabel{Current: 2, Total: 4}, true},
		{"current beyond total", "6/5", InstallmentLabel{}, false},
		{"zero total", "0/0", InstallmentLabel{}, false},
		{"negative", "-1/5", InstallmentLabel{}, false},
		{"no slash", "35", InstallmentLabel{}, false},
		{"not integers", "a/b", InstallmentLabel{}, false},
		{"empty", "", InstallmentLabel{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInstallmentLabel(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseInstallmentLabel(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseInstallmentLabel(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInstallmentLabelFormat(t *testing.T) {
	l := InstallmentLabel{Current: 3, Total: 5}
	if got := l.Format(1); got != "1/5" {
		t.Errorf("Format(1) = %q, want 1/5", got)
	}
	if got := l.Format(5); got != "5/5" {
		t.Errorf("Format(5) = %q, want 5/5", got)
	}
}
