package wrapper

import (
	"fmt"

	"github.com/cellserve/cellserve/pkg/payload"
	"github.com/cellserve/cellserve/pkg/route"
	"github.com/cellserve/cellserve/pkg/singlecell"
	"github.com/cellserve/cellserve/pkg/vocab"
)

// The cell-sets payload header pins the hierarchy schema clients parse.
const (
	cellSetsDatatype = "cell"
	cellSetsVersion  = "0.1.2"
)

// SingleCellWrapper adapts a singlecell.Experiment. It supplies cells,
// cell-sets, and expression-matrix; the remaining capabilities are
// inherited empty from Unimplemented.
type SingleCellWrapper struct {
	Unimplemented
	exp *singlecell.Experiment
}

// NewSingleCell wraps exp. The experiment is shared, never copied, and must
// not be mutated while the wrapper is in use.
func NewSingleCell(exp *singlecell.Experiment) *SingleCellWrapper {
	return &SingleCellWrapper{exp: exp}
}

// cellEntry is the per-cell member of the cells payload.
type cellEntry struct {
	Mappings *payload.Object `json:"mappings"`
}

// GetCells builds the per-cell embedding coordinate payload: an object
// keyed by cell ID whose entries map embedding names to [x, y] pairs. Cell
// IDs and embeddings iterate in stored order; the first two coordinate
// columns of each row become the pair.
func (w *SingleCellWrapper) GetCells(port int, dataset string, index int) (Result, error) {
	if w.exp.CellIDs == nil {
		return Result{}, fmt.Errorf("wrapper: cells: experiment has no cell identifiers: %w", ErrMissingField)
	}

	cells := payload.NewObject()
	mappings := make(map[string]*payload.Object, len(w.exp.CellIDs))
	for _, id := range w.exp.CellIDs {
		m := payload.NewObject()
		mappings[id] = m
		cells.Set(id, cellEntry{Mappings: m})
	}
	for _, em := range w.exp.Embeddings {
		if err := checkCoords(em, len(w.exp.CellIDs)); err != nil {
			return Result{}, err
		}
		for i, id := range w.exp.CellIDs {
			mappings[id].Set(em.Name, payload.Pair{em.Coords[i][0], em.Coords[i][1]})
		}
	}

	suffix := string(vocab.DataTypeCells)
	return Result{
		Routes: []route.Route{route.JSON(route.Path(dataset, index, suffix), cells)},
		FileDefs: []FileDefinition{{
			Type:     vocab.DataTypeCells,
			FileType: vocab.FileTypeCellsJSON,
			URL:      route.URL(port, dataset, index, suffix),
		}},
	}, nil
}

// checkCoords verifies an embedding has a row per cell and at least two
// coordinate columns in every row.
func checkCoords(em singlecell.Embedding, cells int) error {
	if len(em.Coords) != cells {
		return fmt.Errorf("wrapper: cells: embedding %q has %d rows for %d cells: %w", em.Name, len(em.Coords), cells, ErrMissingField)
	}
	for i, row := range em.Coords {
		if len(row) < 2 {
			return fmt.Errorf("wrapper: cells: embedding %q row %d has %d coordinates, need 2: %w", em.Name, i, len(row), ErrMissingField)
		}
	}
	return nil
}

// setNode is one node of the cell-sets hierarchy. Leaves carry the member
// cell IDs; group nodes carry children. Both are sequences on the wire.
type setNode struct {
	Name     string    `json:"name"`
	Children []setNode `json:"children,omitempty"`
	Set      []string  `json:"set,omitempty"`
}

// cellSets is the cell-sets payload envelope.
type cellSets struct {
	Datatype string    `json:"datatype"`
	Version  string    `json:"version"`
	Tree     []setNode `json:"tree"`
}

// GetCellSets builds the annotation hierarchy: one root node per annotation
// column, one child per distinct value in order of first appearance, each
// child listing its member cell IDs in stored order.
func (w *SingleCellWrapper) GetCellSets(port int, dataset string, index int) (Result, error) {
	if w.exp.CellIDs == nil {
		return Result{}, fmt.Errorf("wrapper: cell-sets: experiment has no cell identifiers: %w", ErrMissingField)
	}

	tree := make([]setNode, 0, len(w.exp.Annotations))
	for _, an := range w.exp.Annotations {
		if len(an.Values) != len(w.exp.CellIDs) {
			return Result{}, fmt.Errorf("wrapper: cell-sets: annotation %q has %d values for %d cells: %w",
				an.Name, len(an.Values), len(w.exp.CellIDs), ErrMissingField)
		}
		members := make(map[string][]string)
		var order []string
		for i, v := range an.Values {
			if _, ok := members[v]; !ok {
				order = append(order, v)
			}
			members[v] = append(members[v], w.exp.CellIDs[i])
		}
		node := setNode{Name: an.Name}
		for _, v := range order {
			node.Children = append(node.Children, setNode{Name: v, Set: members[v]})
		}
		tree = append(tree, node)
	}

	suffix := string(vocab.DataTypeCellSets)
	return Result{
		Routes: []route.Route{route.JSON(route.Path(dataset, index, suffix), cellSets{
			Datatype: cellSetsDatatype,
			Version:  cellSetsVersion,
			Tree:     tree,
		})},
		FileDefs: []FileDefinition{{
			Type:     vocab.DataTypeCellSets,
			FileType: vocab.FileTypeCellSetsJSON,
			URL:      route.URL(port, dataset, index, suffix),
		}},
	}, nil
}

// GetExpressionMatrix serves the experiment's assay in the legacy
// clusters.json layout.
func (w *SingleCellWrapper) GetExpressionMatrix(port int, dataset string, index int) (Result, error) {
	if w.exp.Assay == nil {
		return Result{}, fmt.Errorf("wrapper: expression-matrix: experiment has no assay: %w", ErrMissingField)
	}
	return matrixResult(w.exp.Assay, port, dataset, index)
}
