// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/mdhender/visrpt/model"
	store "github.com/mdhender/visrpt/stores/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string, createdAt time.Time) *model.Run {
	return &model.Run{
		ID:               id,
		GeneratedAt:      createdAt,
		MembersPath:      "data/members.csv",
		VisitsPath:       "data/visits.csv",
		TotalValidVisits: 3,
		TotalWalkIns:     1,
		GroupCount:       2,
		DefectCount:      1,
		CreatedAt:        createdAt,
		TopMembers: []model.TopMember{
			{MemberID: "m1", VisitCount: 2},
			{MemberID: "m2", VisitCount: 1},
		},
	}
}

func TestStore_InsertAndLastRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.LastRun(ctx)
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if empty != nil {
		t.Fatalf("expected nil for empty store, got %+v", empty)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	defects := []model.Defect{
		{Source: "visits", Line: 5, Reason: "unknown barcode", Detail: "visit_id=v4 barcode=bx"},
	}
	if err := s.InsertRun(ctx, testRun("run-1", base), defects); err != nil {
		t.Fatalf("insert run-1: %v", err)
	}
	if err := s.InsertRun(ctx, testRun("run-2", base.Add(time.Minute)), nil); err != nil {
		t.Fatalf("insert run-2: %v", err)
	}

	last, err := s.LastRun(ctx)
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if last == nil {
		t.Fatal("expected a run")
	}
	if last.ID != "run-2" {
		t.Errorf("expected run-2, got %s", last.ID)
	}
	if last.TotalValidVisits != 3 || last.TotalWalkIns != 1 {
		t.Errorf("unexpected totals %+v", last)
	}
	if len(last.TopMembers) != 2 {
		t.Fatalf("expected 2 top members, got %d", len(last.TopMembers))
	}
	if last.TopMembers[0].MemberID != "m1" {
		t.Errorf("expected m1 ranked first, got %s", last.TopMembers[0].MemberID)
	}
}

func TestStore_GetRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := s.InsertRun(ctx, testRun("run-1", now), nil); err != nil {
		t.Fatalf("insert: %v", err)
	}

	run, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run == nil {
		t.Fatal("expected a run")
	}
	if !run.GeneratedAt.Equal(now) {
		t.Errorf("expected generated_at %v, got %v", now, run.GeneratedAt)
	}

	missing, err := s.GetRun(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing run: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing run, got %+v", missing)
	}
}

func TestStore_Runs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		if err := s.InsertRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Minute)), nil); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	runs, err := s.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-3" || runs[1].ID != "run-2" {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}

	count, err := s.RunCount(ctx)
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 runs, got %d", count)
	}
}

func TestStore_DefectsByRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	defects := []model.Defect{
		{Source: "members.csv", Line: 3, Reason: "duplicate barcode", Detail: "barcode=b1"},
		{Source: "visits", Line: 7, Reason: "missing barcode", Detail: "visit_id=v9"},
	}
	if err := s.InsertRun(ctx, testRun("run-1", time.Now().UTC()), defects); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.DefectsByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("defects: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 defects, got %d", len(got))
	}
	if got[0].Reason != "duplicate barcode" || got[0].Line != 3 {
		t.Errorf("unexpected first defect %+v", got[0])
	}
	if got[1].Source != "visits" {
		t.Errorf("unexpected second defect %+v", got[1])
	}
}

func TestRun_Summary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := testRun("run-1", now)

	summary := run.Summary()
	if summary.TotalValidVisits != 3 || summary.TotalWalkIns != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if !summary.GeneratedAt.Equal(now) {
		t.Errorf("expected %v, got %v", now, summary.GeneratedAt)
	}

	run.TopMembers = nil
	if got := run.Summary().TopMembers; got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil ranking, got %v", got)
	}
}
