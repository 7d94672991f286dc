package distributor

import "testing"

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"my_dist", true},
		{"dist-1.2", true},
		{"ABC", true},
		{"", false},
		{"!@#$%^&*()", false},
		{"has space", false},
		{"slash/id", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsValidID(tt.id); got != tt.want {
				t.Errorf("IsValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name   string
		typeID string
		suffix string
		want   string
	}{
		{"plain type", "mock-distributor", "1a2b3c4d", "mock-distributor_1a2b3c4d"},
		{"type with illegal characters", "yum dist/v2", "ff", "yum_dist_v2_ff"},
		{"empty type", "", "ab", "distributor_ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateID(tt.typeID, tt.suffix)
			if got != tt.want {
				t.Errorf("GenerateID = %q, want %q", got, tt.want)
			}
			if !IsValidID(got) {
				t.Errorf("generated id %q does not satisfy the grammar", got)
			}
		})
	}
}
