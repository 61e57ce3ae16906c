// Package config loads the cellserve configuration from YAML.
//
// The file names the serving port and the datasets to build: each dataset
// has a uid and an ordered list of source objects, each with a kind
// selecting its wrapper and a path to its JSON source. Missing fields get
// defaults before validation; an invalid file fails Load rather than
// producing a half-usable configuration.
package config
