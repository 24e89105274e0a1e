// Package document turns YAML text into an immutable tree of mappings,
// sequences, and scalars.
//
// The tree is the common input of the shape differ and the document
// validator. Mapping keys keep their source order, so anything that walks a
// Mapping produces stable, reproducible output.
package document
