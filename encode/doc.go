// Package encode writes document trees as YAML or JSON.
//
// JSON is written directly so that object keys keep document order and
// output can be colored token by token. YAML is produced by
// github.com/goccy/go-yaml from an ordered MapSlice rendering of the
// tree; coloring YAML re-lexes the output with the same library.
package encode
