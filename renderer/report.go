// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package renderer turns grouped visit data into the two report formats:
// the tabular visits-per-member report and the JSON summary artifact.
package renderer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mdhender/visrpt/model"
	"github.com/spf13/afero"
)

const reportHeader = "member_id,barcode,visits"

// RenderReport writes the tabular report: a header line, then one line per
// group sorted ascending by (member id, barcode). The visit list renders
// as a literal bracketed, comma-space-separated list without CSV quoting.
// Insertion order is preserved within each visit list.
func RenderReport(w io.Writer, grouped model.Grouped) error {
	if _, err := fmt.Fprintln(w, reportHeader); err != nil {
		return err
	}
	for _, key := range grouped.SortedKeys() {
		line := fmt.Sprintf("%s,%s,[%s]", key.MemberID, key.Barcode, strings.Join(grouped[key], ", "))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport renders the tabular report to a file, creating the parent
// directory if needed.
func WriteReport(fsys afero.Fs, path string, grouped model.Grouped) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return &ErrWriteFile{Op: "mkdir", Path: dir, Err: err}
		}
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, grouped); err != nil {
		return &ErrWriteFile{Op: "write", Path: path, Err: err}
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0644); err != nil {
		return &ErrWriteFile{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ParseReport reads a tabular report back into grouped form. The renderer
// and parser agree on the format, so rendering then parsing recovers the
// same groups and ordered visit lists.
func ParseReport(r io.Reader) (model.Grouped, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing header")
	}
	if got := strings.TrimSpace(sc.Text()); got != reportHeader {
		return nil, fmt.Errorf("unexpected header %q", got)
	}

	grouped := make(model.Grouped)
	for lineNo := 2; sc.Scan(); lineNo++ {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: malformed row", lineNo)
		}
		visits := parts[2]
		if !strings.HasPrefix(visits, "[") || !strings.HasSuffix(visits, "]") {
			return nil, fmt.Errorf("line %d: malformed visit list", lineNo)
		}
		var ids []string
		if inner := visits[1 : len(visits)-1]; inner != "" {
			ids = strings.Split(inner, ", ")
		}
		grouped[model.GroupKey{MemberID: parts[0], Barcode: parts[1]}] = ids
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return grouped, nil
}
