// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"encoding/csv"
	"io"
	"strings"
)

// namedRow is one data row keyed by the header names of its file.
// Missing trailing fields are normalized to empty strings.
type namedRow struct {
	line   int
	fields map[string]string
}

// readNamedRows reads a header-named CSV stream. The header is line 1;
// data rows are numbered from 2. Rows may be ragged: short rows read as
// empty fields, extra fields are dropped.
func readNamedRows(r io.Reader) ([]namedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows []namedRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, namedRow{line: line, fields: fields})
	}
	return rows, nil
}
