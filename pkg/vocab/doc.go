// Package vocab defines the closed identifier catalogs for served payloads.
//
// DataType names the semantic shape of a payload (cells, cell-sets,
// expression-matrix, ...) and doubles as the route suffix under which the
// payload is served. FileType names the serialization convention a client
// should use to read it. Both catalogs are fixed at compile time; there is
// no runtime registration, so a wrapper cannot emit an identifier no client
// understands.
//
// DataTypeOf and FileTypeOf resolve free-form names against the catalogs and
// fail with ErrUnknownType for anything else. FileTypesFor lists the valid
// encodings of one data type, in catalog order.
package vocab
