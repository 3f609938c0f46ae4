// Package memory sets GOMEMLIMIT for containerized deployments.
//
// Unlike GOMAXPROCS, the Go runtime does not derive a heap limit from cgroup
// settings. [ConfigureFromEnv] reads the container limit from the
// environment and applies a share of it:
//
//   - GOMEMLIMIT: standard Go variable, left untouched when set.
//   - MEMORY_LIMIT: container memory limit in bytes.
//   - MEMORY_RATIO: decimal share of MEMORY_LIMIT for the heap, default 0.85.
//
// With Kubernetes, MEMORY_LIMIT comes from the Downward API:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
package memory
