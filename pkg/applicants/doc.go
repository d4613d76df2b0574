// Package applicants manages welfare case files and the follow-up tasks
// caseworkers run against them. All storage access is center-scoped.
package applicants
