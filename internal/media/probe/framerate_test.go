package probe

import "testing"

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"integer ratio", "30/1", 30},
		{"ntsc ratio", "30000/1001", 29.97002997002997},
		{"plain decimal", "23.976", 23.976},
		{"zero denominator", "30/0", 30},
		{"empty", "", 30},
		{"garbage", "abc", 30},
		{"half ratio", "abc/def", 30},
		{"whitespace ratio", " 25 / 1 ", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFrameRate(tt.value, 30); got != tt.want {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
