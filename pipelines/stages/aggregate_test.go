// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/mdhender/visrpt/model"
	"github.com/mdhender/visrpt/pipelines/stages"
)

func TestBuildSummary(t *testing.T) {
	grouped := model.Grouped{
		{MemberID: "m1", Barcode: "b1"}: {"v1", "v2"},
		{MemberID: "m2", Barcode: "b2"}: {"v3"},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	summary := stages.BuildSummary(grouped, 1, 5, now)

	if summary.TotalValidVisits != 3 {
		t.Errorf("expected 3 valid visits, got %d", summary.TotalValidVisits)
	}
	if summary.TotalWalkIns != 1 {
		t.Errorf("expected 1 walk-in, got %d", summary.TotalWalkIns)
	}
	if !summary.GeneratedAt.Equal(now) {
		t.Errorf("expected generated_at %v, got %v", now, summary.GeneratedAt)
	}
	want := []model.TopMember{
		{MemberID: "m1", VisitCount: 2},
		{MemberID: "m2", VisitCount: 1},
	}
	if !reflect.DeepEqual(summary.TopMembers, want) {
		t.Errorf("expected %v, got %v", want, summary.TopMembers)
	}
}

func TestBuildSummary_AccumulatesAcrossBarcodes(t *testing.T) {
	grouped := model.Grouped{
		{MemberID: "m1", Barcode: "b1"}: {"v1"},
		{MemberID: "m1", Barcode: "b9"}: {"v2", "v3"},
		{MemberID: "m2", Barcode: "b2"}: {"v4", "v5"},
	}

	summary := stages.BuildSummary(grouped, 0, 5, time.Now())

	want := []model.TopMember{
		{MemberID: "m1", VisitCount: 3},
		{MemberID: "m2", VisitCount: 2},
	}
	if !reflect.DeepEqual(summary.TopMembers, want) {
		t.Errorf("expected %v, got %v", want, summary.TopMembers)
	}
}

func TestBuildSummary_TieBreaksByMemberID(t *testing.T) {
	// two members with 3 visits each: the lexicographically smaller
	// member id must rank first
	grouped := model.Grouped{
		{MemberID: "zeta", Barcode: "b2"}:  {"v1", "v2", "v3"},
		{MemberID: "alpha", Barcode: "b1"}: {"v4", "v5", "v6"},
		{MemberID: "mid", Barcode: "b3"}:   {"v7"},
	}

	summary := stages.BuildSummary(grouped, 0, 5, time.Now())

	want := []model.TopMember{
		{MemberID: "alpha", VisitCount: 3},
		{MemberID: "zeta", VisitCount: 3},
		{MemberID: "mid", VisitCount: 1},
	}
	if !reflect.DeepEqual(summary.TopMembers, want) {
		t.Errorf("expected %v, got %v", want, summary.TopMembers)
	}
}

func TestBuildSummary_TopNZero(t *testing.T) {
	grouped := model.Grouped{
		{MemberID: "m1", Barcode: "b1"}: {"v1", "v2"},
	}

	summary := stages.BuildSummary(grouped, 2, 0, time.Now())

	if len(summary.TopMembers) != 0 {
		t.Errorf("expected empty ranking, got %v", summary.TopMembers)
	}
	if summary.TotalValidVisits != 2 {
		t.Errorf("expected totals still computed, got %d", summary.TotalValidVisits)
	}
	if summary.TotalWalkIns != 2 {
		t.Errorf("expected 2 walk-ins, got %d", summary.TotalWalkIns)
	}
}

func TestBuildSummary_TopNLargerThanMembers(t *testing.T) {
	grouped := model.Grouped{
		{MemberID: "m1", Barcode: "b1"}: {"v1"},
	}

	summary := stages.BuildSummary(grouped, 0, 10, time.Now())

	if len(summary.TopMembers) != 1 {
		t.Errorf("expected 1 entry, got %d", len(summary.TopMembers))
	}
}

func TestBuildSummary_TimestampIsUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	summary := stages.BuildSummary(model.Grouped{}, 0, 5, now)

	if summary.GeneratedAt.Location() != time.UTC {
		t.Errorf("expected UTC timestamp, got %v", summary.GeneratedAt.Location())
	}
}
