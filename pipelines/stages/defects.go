// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"log"

	"github.com/mdhender/visrpt/model"
)

// Collector gathers row-level defects as the loaders and validator reject
// rows. Rejections are never fatal; every defect is recorded and, when a
// logger is attached, logged with its source and line.
type Collector struct {
	logger  *log.Logger
	defects []model.Defect
}

// NewCollector creates a Collector. A nil logger collects silently, which
// keeps unit tests free of log noise.
func NewCollector(logger *log.Logger) *Collector {
	return &Collector{logger: logger}
}

// Reject records one rejected row. Line is zero when the rejection did not
// happen while reading a file (the join stage carries the original line
// through the Visit instead).
func (c *Collector) Reject(source string, line int, reason, detail string) {
	c.defects = append(c.defects, model.Defect{
		Source: source,
		Line:   line,
		Reason: reason,
		Detail: detail,
	})
	if c.logger != nil {
		if line > 0 {
			c.logger.Printf("warn: %s: line %d: %s: %s\n", source, line, reason, detail)
		} else {
			c.logger.Printf("warn: %s: %s: %s\n", source, reason, detail)
		}
	}
}

// Defects returns the recorded defects in rejection order.
func (c *Collector) Defects() []model.Defect {
	return c.defects
}

// Count returns the number of recorded defects.
func (c *Collector) Count() int {
	return len(c.defects)
}
