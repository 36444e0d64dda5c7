// Package collection converges membership of the target collection with
// each item's local-extras status. Updates resubmit the full tag list, so
// the last writer wins; concurrent edits made elsewhere between the scan
// and the update are overwritten.
package collection

import (
	"context"
	"log/slog"

	"extrasync/internal/library"
	"extrasync/internal/logging"
	"extrasync/internal/services"
	"extrasync/internal/services/plex"
)

// Outcome classifies what the synchronizer did (or would do) with one item.
type Outcome int

const (
	// OutcomeIgnored: not in the collection and no extras.
	OutcomeIgnored Outcome = iota
	// OutcomeKept: already in the collection and still has extras.
	OutcomeKept
	// OutcomeAdded: has extras, joined the collection.
	OutcomeAdded
	// OutcomeRemoved: lost its extras, left the collection.
	OutcomeRemoved
	// OutcomeRetained: would have been removed, but deletion is suppressed.
	OutcomeRetained
)

// Classify decides an item's outcome from its current membership and extras
// status. Pure; the mutation happens in Apply.
func Classify(item library.Item, collectionName string, noDelete bool) Outcome {
	member := containsTag(item.Collections, collectionName)
	switch {
	case member && item.HasExtras:
		return OutcomeKept
	case member && !item.HasExtras:
		if noDelete {
			return OutcomeRetained
		}
		return OutcomeRemoved
	case !member && item.HasExtras:
		return OutcomeAdded
	default:
		return OutcomeIgnored
	}
}

// Failure records an item whose collection update did not go through.
type Failure struct {
	Title string
	Err   error
}

// Summary is the categorized result of one synchronization pass.
type Summary struct {
	Kept     []string
	Added    []string
	Removed  []string
	Retained []string
	Failed   []Failure
}

// Mutations reports how many collection updates the pass issued.
func (s Summary) Mutations() int {
	return len(s.Added) + len(s.Removed)
}

// Synchronizer pushes collection membership changes for one section.
type Synchronizer struct {
	client     plex.Client
	sectionID  int
	typeCode   int
	collection string
	noDelete   bool
	logger     *slog.Logger
}

// NewSynchronizer constructs a synchronizer for the given section and target
// collection name.
func NewSynchronizer(client plex.Client, section plex.Section, collectionName string, noDelete bool, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		client:     client,
		sectionID:  section.ID,
		typeCode:   section.TypeCode(),
		collection: collectionName,
		noDelete:   noDelete,
		logger:     logging.WithComponent(logger, "sync"),
	}
}

// Apply walks the scanned items, classifies each, and issues add/remove
// updates. A failed update is logged and recorded; the pass continues with
// the next item unless the failure is fatal (connectivity, authorization),
// in which case the remaining updates are skipped since they would all fail
// the same way. Applying twice over a converged set issues no updates.
func (s *Synchronizer) Apply(ctx context.Context, items []library.Item) Summary {
	var summary Summary
	for _, item := range items {
		switch Classify(item, s.collection, s.noDelete) {
		case OutcomeKept:
			summary.Kept = append(summary.Kept, item.Title)
		case OutcomeRetained:
			summary.Retained = append(summary.Retained, item.Title)
		case OutcomeAdded:
			tags := withTag(item.Collections, s.collection)
			if err := s.push(ctx, item, tags); err != nil {
				summary.Failed = append(summary.Failed, Failure{Title: item.Title, Err: err})
				if services.Fatal(err) {
					s.logger.Error("aborting remaining updates", logging.Args(logging.Error(err))...)
					return summary
				}
				continue
			}
			summary.Added = append(summary.Added, item.Title)
		case OutcomeRemoved:
			tags := withoutTag(item.Collections, s.collection)
			if err := s.push(ctx, item, tags); err != nil {
				summary.Failed = append(summary.Failed, Failure{Title: item.Title, Err: err})
				if services.Fatal(err) {
					s.logger.Error("aborting remaining updates", logging.Args(logging.Error(err))...)
					return summary
				}
				continue
			}
			summary.Removed = append(summary.Removed, item.Title)
		}
	}
	return summary
}

func (s *Synchronizer) push(ctx context.Context, item library.Item, tags []string) error {
	err := s.client.UpdateCollections(ctx, s.sectionID, s.typeCode, item.RatingKey, tags)
	if err != nil {
		s.logger.Warn("collection update failed",
			logging.Args(
				logging.String("item", item.Title),
				logging.String("rating_key", item.RatingKey),
				logging.Error(err))...)
	}
	return err
}

func containsTag(tags []string, name string) bool {
	for _, tag := range tags {
		if tag == name {
			return true
		}
	}
	return false
}

// withTag appends exactly one instance of name, preserving prior entries.
func withTag(tags []string, name string) []string {
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, name)
}

// withoutTag drops every instance of name, mirroring the server's list
// semantics which do not enforce uniqueness.
func withoutTag(tags []string, name string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != name {
			out = append(out, tag)
		}
	}
	return out
}
