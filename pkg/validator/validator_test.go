package validator

import "testing"

type sample struct {
	Name string  `validate:"required"`
	Day  string  `validate:"required,date"`
	Opt  *string `validate:"omitempty,date"`
}

func TestValidateStruct(t *testing.T) {
	bad := "16/10/2026"
	tests := []struct {
		name   string
		input  sample
		failed []string
	}{
		{"valid", sample{Name: "tomato", Day: "2026-10-16"}, nil},
		{"missing name", sample{Day: "2026-10-16"}, []string{"sample.Name"}},
		{"bad date", sample{Name: "x", Day: "2026-13-01"}, []string{"sample.Day"}},
		{"bad optional date", sample{Name: "x", Day: "2026-10-16", Opt: &bad}, []string{"sample.Opt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.input)
			if len(errs) != len(tt.failed) {
				t.Fatalf("expected %d errors, got %d", len(tt.failed), len(errs))
			}
			for i, e := range errs {
				if e.FailedField != tt.failed[i] {
					t.Errorf("expected failure on %s, got %s", tt.failed[i], e.FailedField)
				}
			}
		})
	}
}
