// Package form orchestrates the submit lifecycle for descriptor-driven forms:
// schema validation, an optional synchronous custom pass, the async submit
// callback, and status tracking with a timed success window. Failures keep
// the entered values so the user can correct and resubmit; nothing retries
// automatically.
package form
