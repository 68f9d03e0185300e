// Package index manages the on-disk lifecycle of bleve-backed document
// indexes: create, open, existence checks, and deletion.
//
// An index is a directory owned by the engine. This package only looks at
// one file inside it, the engine's metadata marker (MetaFile), to decide
// whether an index is present. The schema the index was created with is
// stored inside the engine and recovered on Open.
//
// Create, Open, Exists and Delete are independent primitives with distinct
// failure codes, so a host can tell "already exists" from "not found" from
// an environment failure:
//
//	ERR_301_INDEX_EXISTS    Create on a path that already holds an index
//	ERR_302_INDEX_NOT_FOUND Open on a path without an index
//	ERR_303_CORRUPT_INDEX   metadata present but unreadable
//	ERR_304_SCHEMA_MISSING  engine metadata without a stored schema
//	ERR_305_INDEX_LOCKED    another writer holds the engine lock
//	ERR_201_IO              filesystem failure
package index
