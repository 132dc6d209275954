// Package pkguid mints identifiers.
//
// UUID (version 7) tags HTTP requests with a correlation id; the ids sort by
// creation time, so log lines of one request cluster together. Snowflake
// numbers training runs.
package pkguid
