// Package services defines shared error classification used across the
// scan and synchronize phases.
//
// The sentinel markers map failures onto the run's fatality rules: missing
// configuration and connectivity or authorization problems abort the run,
// while an unexpected response is fatal only for section and listing calls
// and downgrades to a skip for a single metadata group fetch.
package services
