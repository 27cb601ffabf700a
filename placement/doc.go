// Package placement provides helpers for deriving entity identifiers used
// by the topology manager's placement hash.
//
// Placement itself is plain modular hashing over sequentially assigned GIDs
// (see vptopo.Manager.SuggestVP); this package only covers embedders that
// name entities with string labels before numbering them.
package placement
