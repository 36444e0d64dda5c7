package plex

import (
	"strconv"
	"strings"
)

// Type codes used by the section listing and collection endpoints.
const (
	TypeMovie   = 1
	TypeEpisode = 4
)

// LocalFileGUIDPrefix marks an extra whose media lives on local storage
// rather than being a streamed trailer.
const LocalFileGUIDPrefix = "file:///"

// Section is a top-level library (e.g. "Movies", "TV Shows").
type Section struct {
	ID    int
	Title string
	Type  string
}

// IsScannable reports whether the section holds movies or shows.
func (s Section) IsScannable() bool {
	return s.Type == "movie" || s.Type == "show"
}

// TypeCode returns the item type code used when listing the section's
// leaf items: movies directly, shows via their episodes.
func (s Section) TypeCode() int {
	if s.Type == "show" {
		return TypeEpisode
	}
	return TypeMovie
}

// Metadata is one library item as returned by the listing and metadata
// endpoints. Extras and Collection are only populated by batched metadata
// requests made with includeExtras.
type Metadata struct {
	RatingKey        string  `json:"ratingKey"`
	Key              string  `json:"key"`
	Title            string  `json:"title"`
	GrandparentTitle string  `json:"grandparentTitle"`
	ParentIndex      int     `json:"parentIndex"`
	Index            int     `json:"index"`
	Extras           *Extras `json:"Extras"`
	Collection       []Tag   `json:"Collection"`
}

// CollectionTags returns the item's current collection tag names in order.
func (m Metadata) CollectionTags() []string {
	if len(m.Collection) == 0 {
		return nil
	}
	tags := make([]string, 0, len(m.Collection))
	for _, tag := range m.Collection {
		tags = append(tags, tag.Tag)
	}
	return tags
}

// HasLocalExtras reports whether any attached extra is a local file.
func (m Metadata) HasLocalExtras() bool {
	if m.Extras == nil || m.Extras.Size == 0 {
		return false
	}
	for _, extra := range m.Extras.Metadata {
		if strings.HasPrefix(extra.GUID, LocalFileGUIDPrefix) {
			return true
		}
	}
	return false
}

// Extras is the envelope holding an item's bonus content entries.
type Extras struct {
	Size     int     `json:"size"`
	Metadata []Extra `json:"Metadata"`
}

// Extra is one bonus content entry; GUID identifies where its media lives.
type Extra struct {
	GUID  string `json:"guid"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Tag is a collection tag attached to an item.
type Tag struct {
	Tag string `json:"tag"`
}

type envelope struct {
	MediaContainer mediaContainer `json:"MediaContainer"`
}

type mediaContainer struct {
	Size      int         `json:"size"`
	Directory []directory `json:"Directory"`
	Metadata  []Metadata  `json:"Metadata"`
}

type directory struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

func (d directory) section() Section {
	id, _ := strconv.Atoi(d.Key)
	return Section{ID: id, Title: d.Title, Type: d.Type}
}
