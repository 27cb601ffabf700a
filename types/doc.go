// Package types defines the core identifiers, collaborator interfaces, and
// error types used by the vptopo library.
//
// The package exists so that internal packages can share definitions without
// importing the root vptopo package. The root package re-exports the public
// pieces via type aliases, so most users never import types directly.
package types
