// Package descriptor defines the declarative field and form descriptors that
// drive the admin toolkit. A Form is an ordered list of Fields, each carrying
// a closed FieldType tag plus a per-type configuration sub-object; the schema
// generator and renderers both consume these descriptors. Definitions can be
// constructed in code, parsed from YAML documents, derived from an OpenAPI
// operation, or hot-reloaded from disk through the fsnotify-backed Watcher.
package descriptor
