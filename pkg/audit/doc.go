// Package audit records every authorization decision to the access_audit
// table and serves the admin review endpoint over it.
package audit
