// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"reflect"
	"testing"

	"github.com/mdhender/visrpt/model"
	"github.com/mdhender/visrpt/pipelines/stages"
)

func TestValidateAndGroup(t *testing.T) {
	members := map[string]string{"b1": "m1", "b2": "m2"}
	visits := []model.Visit{
		{VisitID: "v1", Barcode: "b1"},
		{VisitID: "v2", Barcode: "b1", ReservationID: "r1"},
		{VisitID: "v3", Barcode: "b2", ReservationID: "r2"},
		{VisitID: "v4", Barcode: "bx"},
	}

	defects := stages.NewCollector(nil)
	grouped, walkIns := stages.ValidateAndGroup(members, visits, defects)

	want := model.Grouped{
		{MemberID: "m1", Barcode: "b1"}: {"v1", "v2"},
		{MemberID: "m2", Barcode: "b2"}: {"v3"},
	}
	if !reflect.DeepEqual(grouped, want) {
		t.Errorf("expected %v, got %v", want, grouped)
	}

	// only v1 is a walk-in; v4 was rejected and never counted
	if walkIns != 1 {
		t.Errorf("expected 1 walk-in, got %d", walkIns)
	}

	if defects.Count() != 1 {
		t.Fatalf("expected 1 defect, got %d", defects.Count())
	}
	if d := defects.Defects()[0]; d.Reason != "unknown barcode" {
		t.Errorf("expected reason 'unknown barcode', got %q", d.Reason)
	}
}

func TestValidateAndGroup_MissingBarcode(t *testing.T) {
	members := map[string]string{"b1": "m1"}
	visits := []model.Visit{
		{VisitID: "v1", Barcode: "", Line: 2},
		{VisitID: "v2", Barcode: "b1"},
	}

	defects := stages.NewCollector(nil)
	grouped, walkIns := stages.ValidateAndGroup(members, visits, defects)

	if got := grouped.TotalVisits(); got != 1 {
		t.Errorf("expected 1 valid visit, got %d", got)
	}
	// v1 had no reservation but was rejected, so it is not a walk-in
	if walkIns != 1 {
		t.Errorf("expected 1 walk-in (v2 only), got %d", walkIns)
	}
	if defects.Count() != 1 {
		t.Fatalf("expected 1 defect, got %d", defects.Count())
	}
	d := defects.Defects()[0]
	if d.Reason != "missing barcode" {
		t.Errorf("expected reason 'missing barcode', got %q", d.Reason)
	}
	if d.Line != 2 {
		t.Errorf("expected defect at line 2, got %d", d.Line)
	}
}

func TestValidateAndGroup_TotalsMatch(t *testing.T) {
	members := map[string]string{"b1": "m1", "b2": "m1", "b3": "m2"}
	visits := []model.Visit{
		{VisitID: "v1", Barcode: "b1"},
		{VisitID: "v2", Barcode: "b2"},
		{VisitID: "v3", Barcode: "b3"},
		{VisitID: "v4", Barcode: "b1"},
		{VisitID: "v5", Barcode: "zz"},
		{VisitID: "v6", Barcode: ""},
	}

	grouped, _ := stages.ValidateAndGroup(members, visits, stages.NewCollector(nil))

	// sum over groups equals the count of visits that passed both checks
	if got := grouped.TotalVisits(); got != 4 {
		t.Errorf("expected 4 valid visits, got %d", got)
	}
}

func TestValidateAndGroup_InsertionOrderWithinGroup(t *testing.T) {
	members := map[string]string{"b1": "m1"}
	visits := []model.Visit{
		{VisitID: "v9", Barcode: "b1"},
		{VisitID: "v1", Barcode: "b1"},
		{VisitID: "v5", Barcode: "b1"},
	}

	grouped, _ := stages.ValidateAndGroup(members, visits, stages.NewCollector(nil))

	got := grouped[model.GroupKey{MemberID: "m1", Barcode: "b1"}]
	want := []string{"v9", "v1", "v5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidateAndGroup_Empty(t *testing.T) {
	grouped, walkIns := stages.ValidateAndGroup(map[string]string{}, nil, stages.NewCollector(nil))
	if len(grouped) != 0 || walkIns != 0 {
		t.Errorf("expected empty result, got %v, %d", grouped, walkIns)
	}
}
