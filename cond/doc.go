// Package cond compiles comparison operators and evaluates condition
// trees against documents.
//
// The operator vocabulary is ==, !=, ===, !==, ~, !~, in and notIn.
// Wrapping an operator in parentheses, as in "(==)", makes the
// condition's value a path into the opposite document.
//
// Conditions are grouped: Tests is a conjunction of Groups, and a Group
// is a disjunction of Conditions. Condition paths may contain the
// wildcard "@"; wildcards shared with the path the pairing was resolved
// from are pinned to the concrete segments of that pairing, and any
// remaining wildcards are expanded, passing when any expanded value
// satisfies the operator.
package cond
