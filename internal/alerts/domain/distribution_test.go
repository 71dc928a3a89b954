package alerts

import (
	"reflect"
	"testing"
)

func TestDistributionListValidate(t *testing.T) {
	list := DistributionList{ID: "list-1", Name: "Operators"}
	if err := list.Validate(); err != nil {
		t.Fatalf("valid list rejected: %v", err)
	}
	if err := (DistributionList{Name: "x"}).Validate(); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if err := (DistributionList{ID: "x"}).Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestCleanEndpoints(t *testing.T) {
	list := DistributionList{
		ID:        "list-1",
		Name:      "Operators",
		Endpoints: []string{" +5511999990000 ", "", "  ", "+5511888880000"},
	}
	want := []string{"+5511999990000", "+5511888880000"}
	if got := list.CleanEndpoints(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected endpoints %v, want %v", got, want)
	}

	empty := DistributionList{ID: "list-2", Name: "Empty", Endpoints: []string{"", "   "}}
	if got := empty.CleanEndpoints(); len(got) != 0 {
		t.Fatalf("expected no endpoints, got %v", got)
	}
}
