// Package policy provides an optional per-node-type execution gate attached
// to a compilation through context. Compilations whose context carries no
// policy run every registered node type.
package policy
