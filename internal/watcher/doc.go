// Package watcher observes the media root with fsnotify and reports
// collections as they appear or disappear. Events only feed logs and
// metrics; nothing is cached, so the catalog always reads from disk.
package watcher
