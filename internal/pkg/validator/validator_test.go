package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsOneOf(t *testing.T) {
	if !IsOneOf("azure", "azure", "postgres") {
		t.Errorf("IsOneOf('azure') = false, want true")
	}
	if IsOneOf("mongo", "azure", "postgres") {
		t.Errorf("IsOneOf('mongo') = true, want false")
	}
	if IsOneOf("azure") {
		t.Errorf("IsOneOf with no allowed values = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "matricula", Message: "is required"},
		{Field: "start_date", Message: "must be DD/MM/YYYY"},
	}
	got := errs.Error()
	want := "matricula: is required; start_date: must be DD/MM/YYYY"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "matricula", Message: "is required"},
		{Field: "end_date", Message: "is required"},
	}
	got := errs.ToMap()
	want := map[string]string{"matricula": "is required", "end_date": "is required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
