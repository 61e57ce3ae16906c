package vocab

import (
	"errors"
	"fmt"
)

// DataType identifies the semantic shape of a served payload.
type DataType string

// FileType identifies the serialization convention for a payload. One
// DataType can have more than one valid FileType encoding.
type FileType string

// The data-type catalog.
const (
	DataTypeCells            DataType = "cells"
	DataTypeCellSets         DataType = "cell-sets"
	DataTypeExpressionMatrix DataType = "expression-matrix"
	DataTypeMolecules        DataType = "molecules"
	DataTypeNeighborhoods    DataType = "neighborhoods"
	DataTypeRaster           DataType = "raster"
)

// The file-type catalog. "clusters.json" is the legacy name of the JSON
// expression-matrix encoding and is kept for client compatibility.
const (
	FileTypeCellsJSON         FileType = "cells.json"
	FileTypeCellSetsJSON      FileType = "cell-sets.json"
	FileTypeClustersJSON      FileType = "clusters.json"
	FileTypeGenesJSON         FileType = "genes.json"
	FileTypeMoleculesJSON     FileType = "molecules.json"
	FileTypeNeighborhoodsJSON FileType = "neighborhoods.json"
	FileTypeRasterJSON        FileType = "raster.json"
)

// ErrUnknownType is returned when a name is not in a catalog.
var ErrUnknownType = errors.New("unknown type")

// encodings maps each data type to its valid file-type encodings.
var encodings = map[DataType][]FileType{
	DataTypeCells:            {FileTypeCellsJSON},
	DataTypeCellSets:         {FileTypeCellSetsJSON},
	DataTypeExpressionMatrix: {FileTypeClustersJSON, FileTypeGenesJSON},
	DataTypeMolecules:        {FileTypeMoleculesJSON},
	DataTypeNeighborhoods:    {FileTypeNeighborhoodsJSON},
	DataTypeRaster:           {FileTypeRasterJSON},
}

// dataTypeOf is the reverse index from file type to the data type it
// encodes, built once from the encodings table.
var dataTypeOf = func() map[FileType]DataType {
	idx := make(map[FileType]DataType)
	for dt, fts := range encodings {
		for _, ft := range fts {
			idx[ft] = dt
		}
	}
	return idx
}()

// DataTypeOf resolves name against the data-type catalog.
func DataTypeOf(name string) (DataType, error) {
	dt := DataType(name)
	if _, ok := encodings[dt]; !ok {
		return "", fmt.Errorf("vocab: data type %q: %w", name, ErrUnknownType)
	}
	return dt, nil
}

// FileTypeOf resolves name against the file-type catalog.
func FileTypeOf(name string) (FileType, error) {
	ft := FileType(name)
	if _, ok := dataTypeOf[ft]; !ok {
		return "", fmt.Errorf("vocab: file type %q: %w", name, ErrUnknownType)
	}
	return ft, nil
}

// DataTypeFor returns the data type the given file type encodes.
func DataTypeFor(ft FileType) (DataType, error) {
	dt, ok := dataTypeOf[ft]
	if !ok {
		return "", fmt.Errorf("vocab: file type %q: %w", ft, ErrUnknownType)
	}
	return dt, nil
}

// FileTypesFor returns the valid encodings of dt in catalog order, or nil
// for an unknown data type.
func FileTypesFor(dt DataType) []FileType {
	fts, ok := encodings[dt]
	if !ok {
		return nil
	}
	out := make([]FileType, len(fts))
	copy(out, fts)
	return out
}

// Encodes reports whether ft is a catalogued encoding of dt.
func Encodes(dt DataType, ft FileType) bool {
	for _, f := range encodings[dt] {
		if f == ft {
			return true
		}
	}
	return false
}
