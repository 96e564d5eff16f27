// Package patchwork applies declarative directives which copy,
// transform and aggregate values from a source document into a target
// document.
//
// # Directives
//
// A directive names a source and a target path, optional tests on
// either side, and flags controlling how the value is written:
//
//	- source: {path: /people/@/name}
//	  target: {path: /names}
//	  collect: true
//	  unique: true
//
// Paths are "/" separated. A segment "@" is a wildcard matching every
// index of an array or every key of an object. Source paths expand
// against existing values only; target paths may name locations which
// do not exist yet, and writes create the intermediate containers.
//
// For each source path and each target path (sources outer, targets
// inner) the engine
//
//   - evaluates target and source tests, skipping the pair when either fails
//   - seeds a value from the source, or from the target with targetAsSource
//   - pipes it through the directive's operations
//   - merges, collects and deduplicates according to the flags
//   - writes the result in place and appends a LogEntry if asked
//
// Directives run in order and each sees the writes of those before it.
//
// # Tests
//
// Tests are a list of groups. Every group must pass and a group passes
// when any of its conditions does. A condition compares the value at
// its path with a literal, or with a value in the other document when
// the operator is written in parentheses, as in "(==)". Wildcards in a
// condition path are pinned to the pairing being evaluated.
//
// # Operations
//
// Operations come from an ops.Registry. The default registry holds the
// shape operation; see package ops for registering others.
//
//	p := patchwork.New(patchwork.WithRegistry(ops.NewRegistry(ops.WithExtensions())))
//	dirty, err := p.PatchIRWith(target, source, directives, patchwork.PatchLog(&log))
//
// # Debugging
//
// Setting PW_DEBUG_PATCH=1 in the environment logs each write to
// stderr. See package debug for the other flags.
package patchwork
