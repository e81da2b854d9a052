// Package manifest lists released manifest files from a git repository or
// a local directory.
//
// A GitSource clones the repository into memory (or into an on-disk cache)
// with go-git; a DirSource reads an existing checkout. Scan returns the file
// names under the manifest subdirectory, optionally dropping files that are
// not well-formed <manifest> XML documents.
package manifest
