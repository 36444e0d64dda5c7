package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"extrasync/internal/services"
)

const (
	productName    = "extrasync"
	productVersion = "1.0"
)

// Client describes the Plex operations the scanner and synchronizer need.
type Client interface {
	TestConnection(ctx context.Context) error
	Sections(ctx context.Context) ([]Section, error)
	SectionItems(ctx context.Context, sectionID, typeCode int) ([]Metadata, error)
	BatchMetadata(ctx context.Context, key string, extraRatingKeys []string) ([]Metadata, error)
	UpdateCollections(ctx context.Context, sectionID, typeCode int, ratingKey string, tags []string) error
}

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type httpClient struct {
	baseURL          string
	token            string
	clientIdentifier string
	client           HTTPDoer
}

// NewClient constructs a Plex API client against the given server using the
// provided HTTP backend. A nil backend falls back to http.DefaultClient.
func NewClient(baseURL, token string, client HTTPDoer) Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		baseURL:          strings.TrimRight(baseURL, "/"),
		token:            token,
		clientIdentifier: uuid.NewString(),
		client:           client,
	}
}

// TestConnection probes the server root, mapping the outcome onto the fatal
// failure classes: transport errors, rejected tokens, and anything else
// non-200 each get their own message.
func (c *httpClient) TestConnection(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.requestURL("/", nil), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "connect", "test",
			fmt.Sprintf("unable to reach %s", c.baseURL), err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return services.Wrap(services.ErrAuthorization, "connect", "test",
			"server rejected the provided token", nil)
	default:
		return services.Wrap(services.ErrUnexpectedResponse, "connect", "test",
			fmt.Sprintf("server returned %d", resp.StatusCode), nil)
	}
}

func (c *httpClient) Sections(ctx context.Context) ([]Section, error) {
	var body envelope
	if err := c.getJSON(ctx, "/library/sections", nil, &body); err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(body.MediaContainer.Directory))
	for _, dir := range body.MediaContainer.Directory {
		sections = append(sections, dir.section())
	}
	return sections, nil
}

func (c *httpClient) SectionItems(ctx context.Context, sectionID, typeCode int) ([]Metadata, error) {
	path := fmt.Sprintf("/library/sections/%d/all", sectionID)
	params := url.Values{"type": []string{fmt.Sprintf("%d", typeCode)}}
	var body envelope
	if err := c.getJSON(ctx, path, params, &body); err != nil {
		return nil, err
	}
	return body.MediaContainer.Metadata, nil
}

// BatchMetadata fetches extended metadata for a group of items in a single
// request: the first item's key path with the remaining rating keys
// comma-joined onto it, asking the server to include extras.
func (c *httpClient) BatchMetadata(ctx context.Context, key string, extraRatingKeys []string) ([]Metadata, error) {
	path := key
	if len(extraRatingKeys) > 0 {
		path += "," + strings.Join(extraRatingKeys, ",")
	}
	params := url.Values{"includeExtras": []string{"1"}}
	var body envelope
	if err := c.getJSON(ctx, path, params, &body); err != nil {
		return nil, err
	}
	return body.MediaContainer.Metadata, nil
}

// UpdateCollections replaces an item's full collection tag list. Tags are
// encoded as indexed query parameters in list order; an empty list clears
// every collection from the item.
func (c *httpClient) UpdateCollections(ctx context.Context, sectionID, typeCode int, ratingKey string, tags []string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/library/sections/%d/all?type=%d&id=%s", c.baseURL, sectionID, typeCode, url.QueryEscape(ratingKey))
	for i, tag := range tags {
		fmt.Fprintf(&sb, "&collection%%5B%d%%5D.tag.tag=%s", i, url.QueryEscape(tag))
	}
	fmt.Fprintf(&sb, "&X-Plex-Token=%s", url.QueryEscape(c.token))

	req, err := c.newRequest(ctx, http.MethodPut, sb.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "sync", "update collections",
			fmt.Sprintf("item %s", ratingKey), err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrUnexpectedResponse, "sync", "update collections",
			fmt.Sprintf("item %s: server returned %d", ratingKey, resp.StatusCode), nil)
	}
	return nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out *envelope) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.requestURL(path, params), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "api", "get "+path, "request failed", err)
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return services.Wrap(services.ErrAuthorization, "api", "get "+path,
			fmt.Sprintf("server returned %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrUnexpectedResponse, "api", "get "+path,
			fmt.Sprintf("server returned %d", resp.StatusCode), nil)
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return services.Wrap(services.ErrUnexpectedResponse, "api", "get "+path, "decode response", err)
	}
	return nil
}

func (c *httpClient) requestURL(path string, params url.Values) string {
	target := c.baseURL + path
	sep := "?"
	if encoded := params.Encode(); encoded != "" {
		target += sep + encoded
		sep = "&"
	}
	return target + sep + "X-Plex-Token=" + url.QueryEscape(c.token)
}

func (c *httpClient) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, services.Wrap(services.ErrUnexpectedResponse, "api", method, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Client-Identifier", c.clientIdentifier)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Version", productVersion)
	req.Header.Set("X-Plex-Platform", runtime.GOOS)
	return req, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
