// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"fmt"

	"github.com/mdhender/visrpt/model"
)

// ValidateAndGroup cross-references visits against the member mapping,
// grouping the survivors by (member id, barcode) and counting walk-ins.
// A visit must carry a barcode and that barcode must belong to a known
// member; anything else is rejected to the collector. A rejected visit
// never contributes to the walk-in counter.
func ValidateAndGroup(members map[string]string, visits []model.Visit, defects *Collector) (model.Grouped, int) {
	grouped := make(model.Grouped)
	walkIns := 0

	for _, v := range visits {
		if v.Barcode == "" {
			defects.Reject("visits", v.Line, "missing barcode",
				fmt.Sprintf("visit_id=%s", v.VisitID))
			continue
		}
		memberID, ok := members[v.Barcode]
		if !ok {
			defects.Reject("visits", v.Line, "unknown barcode",
				fmt.Sprintf("visit_id=%s barcode=%s", v.VisitID, v.Barcode))
			continue
		}

		key := model.GroupKey{MemberID: memberID, Barcode: v.Barcode}
		grouped[key] = append(grouped[key], v.VisitID)

		if v.WalkIn() {
			walkIns++
		}
	}

	return grouped, walkIns
}
