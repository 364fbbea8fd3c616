package service

import "testing"

func TestCodeFormats(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"sku", FormatSKU("SEM", 2026, 7), "SEM-2026-007"},
		{"sku beyond padding", FormatSKU("GEN", 2026, 1234), "GEN-2026-1234"},
		{"lot", FormatLotCode(2026, 42), "LOT-2026-0042"},
		{"supplier", FormatSupplierCode(3), "FOR-003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}
