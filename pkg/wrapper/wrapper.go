package wrapper

import (
	"errors"
	"fmt"

	"github.com/cellserve/cellserve/pkg/route"
	"github.com/cellserve/cellserve/pkg/vocab"
)

// ErrMissingField reports that a wrapped object lacks data a capability's
// contract requires. The failure is scoped to that one capability call.
var ErrMissingField = errors.New("required field missing")

// FileDefinition tells a client where and how to fetch one payload.
type FileDefinition struct {
	Type     vocab.DataType `json:"type"`
	FileType vocab.FileType `json:"fileType"`
	URL      string         `json:"url,omitempty"`
	Options  any            `json:"options,omitempty"`
}

// Validate checks the definition against the vocabulary catalogs: both
// identifiers must be catalogued, and FileType must be an encoding of Type.
func (fd FileDefinition) Validate() error {
	if _, err := vocab.DataTypeOf(string(fd.Type)); err != nil {
		return err
	}
	if _, err := vocab.FileTypeOf(string(fd.FileType)); err != nil {
		return err
	}
	if !vocab.Encodes(fd.Type, fd.FileType) {
		return fmt.Errorf("wrapper: file type %q does not encode data type %q: %w", fd.FileType, fd.Type, vocab.ErrUnknownType)
	}
	return nil
}

// Result is the outcome of one capability call: the routes to serve and the
// file definitions describing them.
type Result struct {
	Routes   []route.Route
	FileDefs []FileDefinition
}

// Empty reports whether the call produced nothing, the uniform answer of an
// unimplemented capability.
func (r Result) Empty() bool {
	return len(r.Routes) == 0 && len(r.FileDefs) == 0
}

// Wrapper adapts one domain object to the capability contract. Every method
// is a read-only transform of the wrapped object.
type Wrapper interface {
	GetCells(port int, dataset string, index int) (Result, error)
	GetCellSets(port int, dataset string, index int) (Result, error)
	GetExpressionMatrix(port int, dataset string, index int) (Result, error)
	GetMolecules(port int, dataset string, index int) (Result, error)
	GetNeighborhoods(port int, dataset string, index int) (Result, error)
	GetRaster(port int, dataset string, index int) (Result, error)
}

// Unimplemented returns an empty Result from every capability. Concrete
// wrappers embed it and override what their object shape can supply.
type Unimplemented struct{}

func (Unimplemented) GetCells(int, string, int) (Result, error)            { return Result{}, nil }
func (Unimplemented) GetCellSets(int, string, int) (Result, error)         { return Result{}, nil }
func (Unimplemented) GetExpressionMatrix(int, string, int) (Result, error) { return Result{}, nil }
func (Unimplemented) GetMolecules(int, string, int) (Result, error)        { return Result{}, nil }
func (Unimplemented) GetNeighborhoods(int, string, int) (Result, error)    { return Result{}, nil }
func (Unimplemented) GetRaster(int, string, int) (Result, error)           { return Result{}, nil }

// Capability is one entry of the closed capability vocabulary: the data
// type it serves and the method that invokes it. The data type name is also
// the route suffix.
type Capability struct {
	DataType vocab.DataType
	Call     func(Wrapper, int, string, int) (Result, error)
}

// Capabilities lists every capability in serving order. Dataset building
// probes each one on every registered wrapper.
var Capabilities = []Capability{
	{vocab.DataTypeCells, Wrapper.GetCells},
	{vocab.DataTypeCellSets, Wrapper.GetCellSets},
	{vocab.DataTypeExpressionMatrix, Wrapper.GetExpressionMatrix},
	{vocab.DataTypeMolecules, Wrapper.GetMolecules},
	{vocab.DataTypeNeighborhoods, Wrapper.GetNeighborhoods},
	{vocab.DataTypeRaster, Wrapper.GetRaster},
}
