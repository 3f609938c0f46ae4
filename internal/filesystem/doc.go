/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Media libraries are frequently mounted over NFS. This package wraps os.Stat,
os.Open and os.ReadDir with retry logic for ESTALE (stale file handle) errors,
which occur when NFS-mounted files are accessed during network issues or
server-side changes.

# Usage

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())

# Retry Behavior

Defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only ESTALE triggers retries. All other errors, including "does not exist",
are returned immediately and unwrapped so callers can use errors.Is.

# Metrics

Operations are reported to the [Observer] installed with [SetObserver],
labeled with the volume name from the [VolumeResolver].
*/
package filesystem
