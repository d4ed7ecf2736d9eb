// Package git reads revision metadata of the audited monorepo for report
// headers.
package git
