package wrapper

import (
	"fmt"

	"github.com/cellserve/cellserve/pkg/route"
	"github.com/cellserve/cellserve/pkg/singlecell"
	"github.com/cellserve/cellserve/pkg/vocab"
)

// MatrixWrapper adapts a bare expression matrix with no per-cell structure.
// Only the expression-matrix capability is implemented.
type MatrixWrapper struct {
	Unimplemented
	matrix *singlecell.Matrix
}

// NewMatrix wraps m.
func NewMatrix(m *singlecell.Matrix) *MatrixWrapper {
	return &MatrixWrapper{matrix: m}
}

// GetExpressionMatrix serves the wrapped matrix in the legacy clusters.json
// layout.
func (w *MatrixWrapper) GetExpressionMatrix(port int, dataset string, index int) (Result, error) {
	if w.matrix == nil {
		return Result{}, fmt.Errorf("wrapper: expression-matrix: no matrix wrapped: %w", ErrMissingField)
	}
	return matrixResult(w.matrix, port, dataset, index)
}

// exprMatrix is the expression-matrix payload in the clusters.json layout:
// gene rows, cell columns, row-major values.
type exprMatrix struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Matrix [][]float64 `json:"matrix"`
}

// matrixResult builds the expression-matrix route and file definition
// shared by the experiment and bare-matrix wrappers. Identifier lists and
// rows encode as arrays even when empty.
func matrixResult(m *singlecell.Matrix, port int, dataset string, index int) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, fmt.Errorf("wrapper: expression-matrix: %v: %w", err, ErrMissingField)
	}

	body := exprMatrix{Rows: m.RowIDs, Cols: m.ColIDs, Matrix: m.Values}
	if body.Rows == nil {
		body.Rows = []string{}
	}
	if body.Cols == nil {
		body.Cols = []string{}
	}
	if body.Matrix == nil {
		body.Matrix = [][]float64{}
	}

	suffix := string(vocab.DataTypeExpressionMatrix)
	return Result{
		Routes: []route.Route{route.JSON(route.Path(dataset, index, suffix), body)},
		FileDefs: []FileDefinition{{
			Type:     vocab.DataTypeExpressionMatrix,
			FileType: vocab.FileTypeClustersJSON,
			URL:      route.URL(port, dataset, index, suffix),
		}},
	}, nil
}
