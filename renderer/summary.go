// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"encoding/json"
	"path/filepath"

	"github.com/mdhender/visrpt/model"
	"github.com/spf13/afero"
)

// WriteSummary persists the summary artifact as indented JSON, creating
// the parent directory if needed. The artifact is written whole on every
// run; a reporting surface reads it back later.
func WriteSummary(fsys afero.Fs, path string, summary model.Summary) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return &ErrWriteFile{Op: "mkdir", Path: dir, Err: err}
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return &ErrWriteFile{Op: "write", Path: path, Err: err}
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return &ErrWriteFile{Op: "write", Path: path, Err: err}
	}
	return nil
}
