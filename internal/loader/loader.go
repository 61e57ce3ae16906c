package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cellserve/cellserve/internal/config"
	"github.com/cellserve/cellserve/pkg/dataset"
	"github.com/cellserve/cellserve/pkg/singlecell"
	"github.com/cellserve/cellserve/pkg/wrapper"
)

// experimentFile mirrors the on-disk experiment JSON. Embeddings and
// annotations are arrays so their stored order survives the round trip.
type experimentFile struct {
	CellIDs     []string         `json:"cellIds"`
	Embeddings  []embeddingFile  `json:"embeddings"`
	Annotations []annotationFile `json:"annotations"`
	Assay       *matrixFile      `json:"assay"`
}

type embeddingFile struct {
	Name   string      `json:"name"`
	Coords [][]float64 `json:"coords"`
}

type annotationFile struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type matrixFile struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Matrix [][]float64 `json:"matrix"`
}

// Experiment reads and validates a single-cell experiment from path.
func Experiment(path string) (*singlecell.Experiment, error) {
	var f experimentFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}

	exp := &singlecell.Experiment{
		CellIDs: f.CellIDs,
		Assay:   toMatrix(f.Assay),
	}
	for _, e := range f.Embeddings {
		exp.Embeddings = append(exp.Embeddings, singlecell.Embedding{Name: e.Name, Coords: e.Coords})
	}
	for _, a := range f.Annotations {
		exp.Annotations = append(exp.Annotations, singlecell.Annotation{Name: a.Name, Values: a.Values})
	}

	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}
	return exp, nil
}

// Matrix reads and validates a bare expression matrix from path.
func Matrix(path string) (*singlecell.Matrix, error) {
	var f matrixFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}

	m := toMatrix(&f)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}
	return m, nil
}

// Datasets loads every configured source object and assembles the wrapped
// datasets, in configuration order.
func Datasets(cfgs []config.DatasetConfig) ([]*dataset.Dataset, error) {
	out := make([]*dataset.Dataset, 0, len(cfgs))
	for _, dc := range cfgs {
		d, err := dataset.New(dc.UID)
		if err != nil {
			return nil, err
		}
		for _, oc := range dc.Objects {
			w, err := wrap(oc)
			if err != nil {
				return nil, err
			}
			d.AddObject(w)
		}
		out = append(out, d)
	}
	return out, nil
}

// wrap loads one source object and picks its wrapper by kind.
func wrap(oc config.ObjectConfig) (wrapper.Wrapper, error) {
	switch oc.Kind {
	case "experiment":
		exp, err := Experiment(oc.Path)
		if err != nil {
			return nil, err
		}
		return wrapper.NewSingleCell(exp), nil
	case "matrix":
		m, err := Matrix(oc.Path)
		if err != nil {
			return nil, err
		}
		return wrapper.NewMatrix(m), nil
	default:
		return nil, fmt.Errorf("loader: object kind %q unknown", oc.Kind)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("loader: parse %q: %w", path, err)
	}
	return nil
}

func toMatrix(f *matrixFile) *singlecell.Matrix {
	if f == nil {
		return nil
	}
	return &singlecell.Matrix{RowIDs: f.Rows, ColIDs: f.Cols, Values: f.Matrix}
}
