package symbol

import "testing"

func TestIsValidNumeric(t *testing.T) {
	tests := map[string]bool{
		"1234":        true,
		"0":           true,
		"0000000001":  true,
		"12a4":        false,
		"":            false,
		" 12":         false,
		"-12":         false,
		"１２":          false,
		"2025000001\n": false,
	}
	for in, want := range tests {
		if got := IsValidNumeric(in); got != want {
			t.Errorf("IsValidNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2025000001", 2025000001},
		{"0308", 308},
		{"0", 0},
		{"", 0},
		{"12a4", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ToNumber(tt.in); got != tt.want {
			t.Errorf("ToNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
