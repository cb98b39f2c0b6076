// Package optionsource serves paginated {label, value} option pages over
// HTTP for remote-select fields. It is extraction friendly: a catalog of
// options, a handler, and routing helpers with no framework dependency.
package optionsource
