// Package schema discovers which table columns play the latency, region and
// uptime roles. Column roles are not declared by the dataset — they are
// resolved by ranked name matching: an exact case-insensitive match on a
// candidate name always beats a substring match, and candidate order sets
// priority within each pass.
package schema
