package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"extrasync/internal/logging"
	"extrasync/internal/services/plex"
)

// GroupSize bounds how many items one metadata request may carry.
const GroupSize = 50

// ErrNoItems indicates the selected section contained nothing to scan.
var ErrNoItems = errors.New("no items in section")

// Item is one scanned library entry.
type Item struct {
	RatingKey   string
	Title       string
	HasExtras   bool
	Collections []string
}

// Scanner walks a section and accumulates hydrated items.
type Scanner struct {
	client plex.Client
	logger *slog.Logger
}

// NewScanner constructs a scanner over the given client.
func NewScanner(client plex.Client, logger *slog.Logger) *Scanner {
	return &Scanner{client: client, logger: logging.WithComponent(logger, "scanner")}
}

// Scan lists every item of the section's type, hydrates them in groups, and
// reports per-group progress. Group fetch failures skip that group with a
// warning; a listing failure is fatal to the run.
func (s *Scanner) Scan(ctx context.Context, section plex.Section, progress func(done, total int)) ([]Item, error) {
	listed, err := s.client.SectionItems(ctx, section.ID, section.TypeCode())
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return nil, fmt.Errorf("section %q: %w", section.Title, ErrNoItems)
	}

	groups := Group(listed, GroupSize)
	s.logger.Info("scanning section",
		logging.Args(
			logging.String("section", section.Title),
			logging.Int("items", len(listed)),
			logging.Int("groups", len(groups)))...)

	items := make([]Item, 0, len(listed))
	for done, group := range groups {
		hydrated, err := s.hydrateGroup(ctx, section, group)
		if err != nil {
			s.logger.Warn("metadata fetch failed, skipping group",
				logging.Args(
					logging.Int("group", done+1),
					logging.Int("size", len(group)),
					logging.String("first_key", group[0].RatingKey),
					logging.Error(err))...)
		} else {
			items = append(items, hydrated...)
		}
		if progress != nil {
			progress(done+1, len(groups))
		}
	}
	return items, nil
}

func (s *Scanner) hydrateGroup(ctx context.Context, section plex.Section, group []plex.Metadata) ([]Item, error) {
	extraKeys := make([]string, 0, len(group)-1)
	for _, meta := range group[1:] {
		extraKeys = append(extraKeys, meta.RatingKey)
	}

	hydrated, err := s.client.BatchMetadata(ctx, group[0].Key, extraKeys)
	if err != nil {
		return nil, err
	}
	if len(hydrated) == 0 {
		return nil, errors.New("empty metadata envelope")
	}

	items := make([]Item, 0, len(hydrated))
	for _, meta := range hydrated {
		if meta.RatingKey == "" {
			continue
		}
		items = append(items, Item{
			RatingKey:   meta.RatingKey,
			Title:       DisplayTitle(meta, section.TypeCode()),
			HasExtras:   meta.HasLocalExtras(),
			Collections: meta.CollectionTags(),
		})
	}
	return items, nil
}

// Group partitions items into consecutive groups of at most size, preserving
// order. Flattening the result reproduces the input exactly.
func Group(items []plex.Metadata, size int) [][]plex.Metadata {
	if size <= 0 {
		size = GroupSize
	}
	groups := make([][]plex.Metadata, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		groups = append(groups, items[start:end])
	}
	return groups
}

// DisplayTitle renders an item's user-facing name. Episodes compose the show
// title, zero-padded season/episode numbers, and the episode title.
func DisplayTitle(meta plex.Metadata, typeCode int) string {
	if typeCode == plex.TypeEpisode {
		return fmt.Sprintf("%s - S%02dE%02d - %s", meta.GrandparentTitle, meta.ParentIndex, meta.Index, meta.Title)
	}
	return meta.Title
}
