// Package model groups the data types shared by the weaver services.
//
//   - graph – user-authored workflow graph descriptors (nodes and connections)
//   - node  – node class metadata, capability tags and the execution contract
//
// The types are plain data holders and can be decoded from JSON, YAML or HCL.
package model
