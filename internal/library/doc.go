// Package library enumerates a Plex section and hydrates its items with the
// facts the synchronizer needs: whether local extras exist and which
// collections the item currently belongs to.
//
// Items are fetched in consecutive groups of at most 50 to bound request and
// response sizes. A failed group fetch is logged and skipped; the scan
// continues with the remaining groups.
package library
