// Package crud mounts create/read/update/delete endpoints for resources
// described by form definitions. Each resource pairs a form (driving
// validation and rendering) with a Store (persistence). Handlers serve JSON
// for API clients and server-rendered HTML pages for the admin UI.
package crud
