// Package media defines the identity of a playable file in the LocalCast
// library.
//
// The library root is split into scopes:
//
//	<root>/common/       shared files, ScopeCommon
//	<root>/tv_<id>/      one directory per collection, ScopeCollection
//
// An [Item] records only the scope, the collection id and the base filename.
// It is safe to copy and compare. Turning an Item into a path on disk is the
// job of the sandbox package, which re-checks containment on every call.
package media
