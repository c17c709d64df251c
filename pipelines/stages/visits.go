// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mdhender/visrpt/model"
	"github.com/spf13/afero"
)

// LoadVisits reads visits.csv into an ordered visit list. Only the
// visit_id is required here; barcodes are validated downstream against
// the member mapping. An empty or whitespace-only reservation_id is
// normalized to absent, which marks the visit as a walk-in. Duplicate
// visit ids pass through untouched.
func LoadVisits(fsys afero.Fs, path string, defects *Collector) ([]model.Visit, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, &ErrReadSource{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := readNamedRows(f)
	if err != nil {
		return nil, &ErrReadSource{Path: path, Err: err}
	}

	source := filepath.Base(path)
	var visits []model.Visit
	for _, row := range rows {
		visitID := strings.TrimSpace(row.fields["visit_id"])
		barcode := strings.TrimSpace(row.fields["barcode"])
		reservationID := strings.TrimSpace(row.fields["reservation_id"])

		if visitID == "" {
			defects.Reject(source, row.line, "missing visit_id",
				fmt.Sprintf("barcode=%q reservation_id=%q", barcode, reservationID))
			continue
		}

		visits = append(visits, model.Visit{
			VisitID:       visitID,
			Barcode:       barcode,
			ReservationID: reservationID,
			Line:          row.line,
		})
	}

	return visits, nil
}
