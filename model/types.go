// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"sort"
	"time"
)

// Visit is one row from visits.csv after load-time normalization.
// ReservationID is empty when the visit has no reservation (a walk-in).
type Visit struct {
	VisitID       string `json:"visitId"`
	Barcode       string `json:"barcode"`
	ReservationID string `json:"reservationId,omitempty"`
	Line          int    `json:"-"` // source line, kept for defect reporting
}

// WalkIn reports whether the visit was made without a reservation.
func (v Visit) WalkIn() bool {
	return v.ReservationID == ""
}

// GroupKey identifies the member/barcode bucket a valid visit lands in.
// Keys are only ever formed for barcodes that resolve to a known member.
type GroupKey struct {
	MemberID string
	Barcode  string
}

// Grouped maps each member/barcode pair to its visit ids.
// Lists hold ids in input order; duplicates are preserved as-is.
type Grouped map[GroupKey][]string

// TotalVisits returns the number of visit ids across all groups.
func (g Grouped) TotalVisits() int {
	total := 0
	for _, ids := range g {
		total += len(ids)
	}
	return total
}

// SortedKeys returns the group keys sorted ascending by (member id, barcode).
func (g Grouped) SortedKeys() []GroupKey {
	keys := make([]GroupKey, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].MemberID != keys[j].MemberID {
			return keys[i].MemberID < keys[j].MemberID
		}
		return keys[i].Barcode < keys[j].Barcode
	})
	return keys
}

// TopMember is one entry in the visit-count ranking.
type TopMember struct {
	MemberID   string `json:"member_id"`
	VisitCount int    `json:"visit_count"`
}

// Summary is the derived snapshot of a completed run. It is rebuilt from
// scratch on every run; nothing updates it incrementally.
type Summary struct {
	GeneratedAt      time.Time   `json:"generated_at"`
	TotalValidVisits int         `json:"total_valid_visits"`
	TotalWalkIns     int         `json:"total_walk_ins"`
	TopMembers       []TopMember `json:"top_members"`
}

// Defect records a rejected input row with enough context to diagnose it.
type Defect struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Run is a recorded pipeline run in the history store.
type Run struct {
	ID               string      `json:"id"         db:"id"`
	GeneratedAt      time.Time   `json:"generatedAt" db:"generated_at"`
	MembersPath      string      `json:"membersPath" db:"members_path"`
	VisitsPath       string      `json:"visitsPath" db:"visits_path"`
	TotalValidVisits int         `json:"totalValidVisits" db:"total_valid_visits"`
	TotalWalkIns     int         `json:"totalWalkIns" db:"total_walk_ins"`
	GroupCount       int         `json:"groupCount" db:"group_count"`
	DefectCount      int         `json:"defectCount" db:"defect_count"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	TopMembers       []TopMember `json:"topMembers,omitempty"`
}

// Summary rebuilds the summary artifact from the recorded run.
func (r *Run) Summary() Summary {
	top := r.TopMembers
	if top == nil {
		top = []TopMember{}
	}
	return Summary{
		GeneratedAt:      r.GeneratedAt,
		TotalValidVisits: r.TotalValidVisits,
		TotalWalkIns:     r.TotalWalkIns,
		TopMembers:       top,
	}
}
