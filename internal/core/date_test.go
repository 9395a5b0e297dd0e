package core

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid date", "2024-03-15", false},
		{"leap day", "2024-02-29", false},
		{"non leap february", "2023-02-29", true},
		{"missing padding", "2024-3-5", true},
		{"not a date", "yesterday", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && string(d) != tt.input {
				t.Errorf("ParseDate(%q) = %q", tt.input, d)
			}
		})
	}
}

func TestDateAddMonths(t *testing.T) {
	tests := []struct {
		name string
		date Date
		n    int
		want Date
	}{
		{"forward", "2024-03-15", 2, "2024-05-15"},
		{"backward", "2024-03-15", -2, "2024-01-15"},
		{"across year boundary", "2024-11-20", 3, "2025-02-20"},
		{"backward across year", "2024-01-10", -1, "2023-12-10"},
		{"clamp to shorter month", "2024-01-31", 1, "2024-02-29"},
		{"clamp non leap", "2023-01-31", 1, "2023-02-28"},
		{"clamp to thirty days", "2024-03-31", 1, "2024-04-30"},
		{"zero offset", "2024-06-01", 0, "2024-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.AddMonths(tt.n); got != tt.want {
				t.Errorf("%s.AddMonths(%d) = %s, want %s", tt.date, tt.n, got, tt.want)
			}
		})
	}
}

func TestBucketKeyAndLabel(t *testing.T) {
	d := Date("2024-03-05")

	tests := []struct {
		granularity Granularity
		wantKey     string
		wantLabel   string
	}{
		{ByDay, "2024-03-05", "05/03"},
		{ByMonth, "2024-03", "03/2024"},
		{ByYear, "2024", "2024"},
	}

	for _, tt := range tests {
		if got := d.BucketKey(tt.granularity); got != tt.wantKey {
			t.Errorf("BucketKey(%s) = %q, want %q", tt.granularity, got, tt.wantKey)
		}
		if got := BucketLabel(tt.wantKey, tt.granularity); got != tt.wantLabel {
			t.Errorf("BucketLabel(%q, %s) = %q, want %q", tt.wantKey, tt.granularity, got, tt.wantLabel)
		}
	}
}

func TestDateInRange(t *testing.T) {
	d := Date("2024-03-15")

	if !d.InRange("2024-03-15", "2024-03-15") {
		t.Error("range bounds should be inclusive")
	}
	if !d.InRange("", "") {
		t.Error("open range should match everything")
	}
	if d.InRange("2024-03-16", "") {
		t.Error("date before open-ended start should not match")
	}
	if d.InRange("", "2024-03-14") {
		t.Error("date after open-ended end should not match")
	}
}
