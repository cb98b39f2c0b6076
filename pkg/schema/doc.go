// Package schema turns an ordered field-descriptor list into a validation
// schema: exactly one rule per field name, derived from the field's type
// unless the descriptor carries an explicit rule. Building is a pure function
// of the descriptor list; validating a value map yields field-scoped,
// human-readable issues and never mutates inputs.
package schema
