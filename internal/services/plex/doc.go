// Package plex implements the Plex Media Server API surface this tool
// consumes: a connectivity probe, section discovery, full-section listing,
// batched metadata retrieval with extras, and full-list collection updates.
//
// Every request carries the auth token as an X-Plex-Token query parameter and
// asks for a JSON response. Mutations replace the entire collection tag list,
// so the last writer wins; there is no conflict detection and no retry.
package plex
