// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"sort"
	"time"

	"github.com/mdhender/visrpt/model"
)

// BuildSummary derives the run summary from the grouped visits. A member
// with multiple barcodes accumulates visits across all of them. The
// ranking sorts by descending visit count, then ascending member id; the
// member id comparison is the only deterministic tie-break, so it must
// hold exactly. topN of zero yields an empty ranking with the totals
// still computed.
func BuildSummary(grouped model.Grouped, walkIns, topN int, now time.Time) model.Summary {
	perMember := make(map[string]int)
	totalVisits := 0
	for key, ids := range grouped {
		perMember[key.MemberID] += len(ids)
		totalVisits += len(ids)
	}

	ranking := make([]model.TopMember, 0, len(perMember))
	for memberID, count := range perMember {
		ranking = append(ranking, model.TopMember{MemberID: memberID, VisitCount: count})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].VisitCount != ranking[j].VisitCount {
			return ranking[i].VisitCount > ranking[j].VisitCount
		}
		return ranking[i].MemberID < ranking[j].MemberID
	})
	if topN < 0 {
		topN = 0
	}
	if len(ranking) > topN {
		ranking = ranking[:topN]
	}

	return model.Summary{
		GeneratedAt:      now.UTC(),
		TotalValidVisits: totalVisits,
		TotalWalkIns:     walkIns,
		TopMembers:       ranking,
	}
}
