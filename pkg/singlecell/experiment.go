package singlecell

import "fmt"

// Embedding is one named dimensionality reduction. Coords holds one row per
// cell, aligned with the owning Experiment's CellIDs. Rows may carry more
// than two columns; consumers read the first two.
type Embedding struct {
	Name   string
	Coords [][]float64
}

// Annotation is one named categorical label column, aligned with CellIDs.
type Annotation struct {
	Name   string
	Values []string
}

// Matrix is a dense expression matrix: RowIDs name the genes, ColIDs the
// cells, Values holds one row per gene.
type Matrix struct {
	RowIDs []string
	ColIDs []string
	Values [][]float64
}

// Validate checks the matrix dimensions against its identifier lists.
func (m *Matrix) Validate() error {
	if len(m.Values) != len(m.RowIDs) {
		return fmt.Errorf("singlecell: matrix has %d value rows for %d row ids", len(m.Values), len(m.RowIDs))
	}
	for i, row := range m.Values {
		if len(row) != len(m.ColIDs) {
			return fmt.Errorf("singlecell: matrix row %q has %d values for %d column ids", m.RowIDs[i], len(row), len(m.ColIDs))
		}
	}
	return nil
}

// Experiment is one single-cell experiment held fully in memory.
type Experiment struct {
	CellIDs     []string
	Embeddings  []Embedding
	Annotations []Annotation
	Assay       *Matrix
}

// Embedding returns the named embedding.
func (e *Experiment) Embedding(name string) (*Embedding, bool) {
	for i := range e.Embeddings {
		if e.Embeddings[i].Name == name {
			return &e.Embeddings[i], true
		}
	}
	return nil, false
}

// EmbeddingNames returns the embedding names in stored order.
func (e *Experiment) EmbeddingNames() []string {
	names := make([]string, len(e.Embeddings))
	for i, em := range e.Embeddings {
		names[i] = em.Name
	}
	return names
}

// Validate checks that every aligned structure matches the cell count and
// that the assay, when present, is internally consistent.
func (e *Experiment) Validate() error {
	n := len(e.CellIDs)
	for _, em := range e.Embeddings {
		if len(em.Coords) != n {
			return fmt.Errorf("singlecell: embedding %q has %d coordinate rows for %d cells", em.Name, len(em.Coords), n)
		}
	}
	for _, an := range e.Annotations {
		if len(an.Values) != n {
			return fmt.Errorf("singlecell: annotation %q has %d values for %d cells", an.Name, len(an.Values), n)
		}
	}
	if e.Assay != nil {
		if err := e.Assay.Validate(); err != nil {
			return err
		}
		if len(e.Assay.ColIDs) != n {
			return fmt.Errorf("singlecell: assay has %d columns for %d cells", len(e.Assay.ColIDs), n)
		}
	}
	return nil
}
