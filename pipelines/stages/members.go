// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LoadMembers reads members.csv into a barcode -> member id mapping.
// Rows missing either field, or re-using a barcode, are rejected to the
// collector and skipped; the first-seen mapping for a barcode is retained.
// An unreadable file is fatal.
func LoadMembers(fsys afero.Fs, path string, defects *Collector) (map[string]string, error) {
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
	members := make(map[string]string)
	for _, row := range rows {
		memberID := strings.TrimSpace(row.fields["member_id"])
		barcode := strings.TrimSpace(row.fields["barcode"])

		if memberID == "" || barcode == "" {
			defects.Reject(source, row.line, "missing field",
				fmt.Sprintf("member_id=%q barcode=%q", memberID, barcode))
			continue
		}
		if existing, ok := members[barcode]; ok {
			defects.Reject(source, row.line, "duplicate barcode",
				fmt.Sprintf("barcode=%s existing_member=%s new_member=%s", barcode, existing, memberID))
			continue
		}

		members[barcode] = memberID
	}

	return members, nil
}
