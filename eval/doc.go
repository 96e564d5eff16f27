// Package eval provides string templating and expression evaluation
// over documents.
//
// Replace expands <% path %> tokens against a source document. Eval
// runs expr-lang expressions with document values in the environment.
package eval
