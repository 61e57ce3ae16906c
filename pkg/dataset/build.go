package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cellserve/cellserve/pkg/route"
	"github.com/cellserve/cellserve/pkg/wrapper"
)

// DatasetFiles is one dataset's manifest entry.
type DatasetFiles struct {
	UID   string                   `json:"uid"`
	Files []wrapper.FileDefinition `json:"files"`
}

// Manifest aggregates every served file definition. An external client
// fetches it to learn where each payload lives.
type Manifest struct {
	Datasets    []DatasetFiles `json:"datasets"`
	GeneratedAt string         `json:"generatedAt"`
}

// Build probes every capability of every object in every dataset, registers
// the produced routes into table, and aggregates the file definitions into
// a Manifest. File-definition order within a dataset follows object index,
// then capability order.
//
// A capability failing with wrapper.ErrMissingField is logged and skipped.
// Any other failure aborts the build: an out-of-catalog identifier or a
// colliding route path means the session would serve a broken contract.
func Build(port int, table *route.Table, datasets ...*Dataset) (Manifest, error) {
	m := Manifest{
		Datasets:    make([]DatasetFiles, 0, len(datasets)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, d := range datasets {
		entry := DatasetFiles{UID: d.uid, Files: make([]wrapper.FileDefinition, 0)}
		for i, w := range d.wrappers {
			for _, c := range wrapper.Capabilities {
				res, err := c.Call(w, port, d.uid, i)
				if err != nil {
					if errors.Is(err, wrapper.ErrMissingField) {
						slog.Warn("capability skipped",
							"dataset", d.uid,
							"object", i,
							"capability", string(c.DataType),
							"err", err)
						continue
					}
					return Manifest{}, fmt.Errorf("dataset %s object %d %s: %w", d.uid, i, c.DataType, err)
				}
				for _, fd := range res.FileDefs {
					if err := fd.Validate(); err != nil {
						return Manifest{}, fmt.Errorf("dataset %s object %d %s: %w", d.uid, i, c.DataType, err)
					}
				}
				for _, r := range res.Routes {
					if err := table.Register(r); err != nil {
						return Manifest{}, fmt.Errorf("dataset %s object %d %s: %w", d.uid, i, c.DataType, err)
					}
				}
				entry.Files = append(entry.Files, res.FileDefs...)
			}
		}
		m.Datasets = append(m.Datasets, entry)
	}
	return m, nil
}
