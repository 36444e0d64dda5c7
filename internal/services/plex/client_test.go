package plex_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"extrasync/internal/services"
	"extrasync/internal/services/plex"
)

func TestTestConnectionSucceedsOn200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("X-Plex-Token") != "tok" {
			t.Fatalf("missing token in query: %s", r.URL.RawQuery)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Fatalf("unexpected Accept header: %q", accept)
		}
		if r.Header.Get("X-Plex-Client-Identifier") == "" {
			t.Fatal("expected client identifier header")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	if err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection returned error: %v", err)
	}
}

func TestTestConnectionClassifiesAuthFailure(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		client := plex.NewClient(server.URL, "bad", nil)
		err := client.TestConnection(context.Background())
		server.Close()
		if !errors.Is(err, services.ErrAuthorization) {
			t.Fatalf("status %d: expected authorization failure, got %v", status, err)
		}
	}
}

func TestTestConnectionClassifiesUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	if err := client.TestConnection(context.Background()); !errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("expected unexpected-response failure, got %v", err)
	}
}

func TestTestConnectionClassifiesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	if err := client.TestConnection(context.Background()); !errors.Is(err, services.ErrConnectivity) {
		t.Fatalf("expected connectivity failure, got %v", err)
	}
}

func TestSectionsDecodesDirectoryEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"size":3,"Directory":[
			{"key":"1","title":"Movies","type":"movie"},
			{"key":"2","title":"TV Shows","type":"show"},
			{"key":"3","title":"Music","type":"artist"}]}}`))
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	sections, err := client.Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections returned error: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].ID != 1 || sections[0].Title != "Movies" || !sections[0].IsScannable() {
		t.Fatalf("unexpected first section: %+v", sections[0])
	}
	if sections[1].TypeCode() != plex.TypeEpisode {
		t.Fatalf("expected show section to list episodes, got %d", sections[1].TypeCode())
	}
	if sections[2].IsScannable() {
		t.Fatal("music section should not be scannable")
	}
}

func TestSectionItemsFiltersByType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections/2/all" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("type"); got != "4" {
			t.Fatalf("expected type=4, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"size":1,"Metadata":[
			{"ratingKey":"10","key":"/library/metadata/10","title":"Pilot"}]}}`))
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	items, err := client.SectionItems(context.Background(), 2, plex.TypeEpisode)
	if err != nil {
		t.Fatalf("SectionItems returned error: %v", err)
	}
	if len(items) != 1 || items[0].RatingKey != "10" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestBatchMetadataJoinsKeysAndRequestsExtras(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/metadata/10,11,12" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("includeExtras"); got != "1" {
			t.Fatalf("expected includeExtras=1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"size":2,"Metadata":[
			{"ratingKey":"10","title":"First","Extras":{"size":1,"Metadata":[{"guid":"file:///extras/a.mkv"}]},
			 "Collection":[{"tag":"Action"}]},
			{"ratingKey":"11","title":"Second","Extras":{"size":1,"Metadata":[{"guid":"iva://api.internetvideoarchive.com/1"}]}}]}}`))
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	items, err := client.BatchMetadata(context.Background(), "/library/metadata/10", []string{"11", "12"})
	if err != nil {
		t.Fatalf("BatchMetadata returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].HasLocalExtras() {
		t.Fatal("expected first item to have local extras")
	}
	if items[1].HasLocalExtras() {
		t.Fatal("streamed trailer should not count as local extras")
	}
	if tags := items[0].CollectionTags(); len(tags) != 1 || tags[0] != "Action" {
		t.Fatalf("unexpected collection tags: %v", tags)
	}
}

func TestBatchMetadataSingleItemUsesBareKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/metadata/10" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"size":1,"Metadata":[{"ratingKey":"10"}]}}`))
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	if _, err := client.BatchMetadata(context.Background(), "/library/metadata/10", nil); err != nil {
		t.Fatalf("BatchMetadata returned error: %v", err)
	}
}

func TestGetJSONMalformedBodyIsUnexpectedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	if _, err := client.Sections(context.Background()); !errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("expected unexpected-response failure, got %v", err)
	}
}

func TestUpdateCollectionsEncodesIndexedTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/library/sections/1/all" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("type") != "1" || q.Get("id") != "42" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if got := q.Get("collection[0].tag.tag"); got != "Action" {
			t.Fatalf("unexpected first tag: %q", got)
		}
		if got := q.Get("collection[1].tag.tag"); got != "Movies with Extras" {
			t.Fatalf("unexpected second tag: %q", got)
		}
		if q.Get("X-Plex-Token") != "tok" {
			t.Fatal("missing token")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	err := client.UpdateCollections(context.Background(), 1, plex.TypeMovie, "42", []string{"Action", "Movies with Extras"})
	if err != nil {
		t.Fatalf("UpdateCollections returned error: %v", err)
	}
}

func TestUpdateCollectionsEmptyListClearsTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key := range r.URL.Query() {
			if key != "type" && key != "id" && key != "X-Plex-Token" {
				t.Fatalf("unexpected query key: %q", key)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	if err := client.UpdateCollections(context.Background(), 1, plex.TypeMovie, "42", nil); err != nil {
		t.Fatalf("UpdateCollections returned error: %v", err)
	}
}

func TestUpdateCollectionsNon200IsUnexpectedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := plex.NewClient(server.URL, "tok", nil)
	err := client.UpdateCollections(context.Background(), 1, plex.TypeMovie, "42", []string{"A"})
	if !errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("expected unexpected-response failure, got %v", err)
	}
}
