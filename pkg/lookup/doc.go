// Package lookup serves the dropdown option lists used by intake forms,
// seeded from a YAML file and hot-reloaded when the file changes.
package lookup
