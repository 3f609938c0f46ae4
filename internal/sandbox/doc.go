// Package sandbox resolves untrusted media requests to filesystem paths that
// are guaranteed to stay inside their base directory.
//
// Every request is resolved from scratch:
//
//  1. the scope and collection id are validated,
//  2. the base directory (<root>/common or <root>/tv_<id>) is canonicalized,
//  3. the filename is joined and the result canonicalized,
//  4. the canonical candidate must equal the base or start with the base
//     followed by the path separator.
//
// Canonicalization resolves symlinks with filepath.EvalSymlinks on the longest
// existing prefix, so a symlink pointing outside the base is caught, and a
// base directory that has not been created yet still resolves. Prefix checks
// are only ever made on canonical forms, which keeps /media/tv_1x from
// matching /media/tv_1.
//
// Resolution does not check existence. Callers distinguish "forbidden"
// ([ErrPathEscape]) from "not found" themselves.
package sandbox
