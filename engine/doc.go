// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: opening connections and registering the MaxSim
// SQL scalar functions, so token-level relevance can be computed in plain
// SQL over embedding BLOBs stored by the collection package.
package engine
