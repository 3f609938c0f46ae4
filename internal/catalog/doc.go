// Package catalog enumerates the playable files of a LocalCast scope.
//
// A listing reads <root>/common or <root>/tv_<id> directly; nothing is
// cached, so two calls moments apart may differ if the directory changed.
// Entries are kept when they are regular files (symlinks are followed only
// when they resolve inside the sandbox) and their lowercase extension is in
// the configured allow-set. The result is sorted by lowercase filename using
// plain byte comparison, independent of locale and of the order the
// filesystem returns entries in.
//
// A directory that does not exist lists as empty. Any other read failure is
// returned as a [*ReadError].
package catalog
