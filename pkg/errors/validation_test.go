package errors

import "testing"

func TestValidateDesignator(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"R1", false},
		{"M12", false},
		{"GND3", false},
		{"", true},
		{"r1", true},
		{"R", true},
		{"1R", true},
		{"R1a", true},
		{"RRRRRRRRRRRRRRRR1", true},
	}
	for _, tt := range tests {
		err := ValidateDesignator(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDesignator(%q) = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidDesignator) {
			t.Errorf("ValidateDesignator(%q) code = %v", tt.name, GetCode(err))
		}
	}
}

func TestValidateNetLabel(t *testing.T) {
	tests := []struct {
		label   string
		wantErr bool
	}{
		{"vdd", false},
		{"out2", false},
		{"", true},
		{"has space", true},
		{"ctrl\x01", true},
	}
	for _, tt := range tests {
		if err := ValidateNetLabel(tt.label); (err != nil) != tt.wantErr {
			t.Errorf("ValidateNetLabel(%q) = %v, wantErr %v", tt.label, err, tt.wantErr)
		}
	}
}

func TestValidateSnapshotPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"circuit.json", false},
		{"designs/amp.json", false},
		{"", true},
		{"../secrets.json", true},
		{"a/../../b.json", true},
		{"bad\x00.json", true},
	}
	for _, tt := range tests {
		if err := ValidateSnapshotPath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidateSnapshotPath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
