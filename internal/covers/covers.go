// Package covers looks up cover-art URLs for media tasks: OMDb for
// movies and TV shows, OpenLibrary for books. Lookups are best effort;
// a failure degrades to "no cover" and must never fail the surrounding
// listing.
package covers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tasker-cli/tasker/internal/clierr"
)

// ErrNotFound means the provider answered but had no cover for the query.
var ErrNotFound = errors.New("no cover found")

// Default provider endpoints.
const (
	defaultOMDBURL        = "https://www.omdbapi.com/"
	defaultOpenLibraryURL = "https://openlibrary.org/search.json"
	openLibraryCoverURL   = "https://covers.openlibrary.org/b/id/%d-M.jpg"

	requestTimeout = 5 * time.Second
)

// Client queries the cover-art providers.
type Client struct {
	httpClient *http.Client
	omdbKey    string

	// Endpoints are overridable for tests.
	omdbURL        string
	openLibraryURL string
}

// New creates a Client. omdbKey may be empty, in which case movie/TV
// lookups report ErrNotFound without a network call.
func New(omdbKey string) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: requestTimeout},
		omdbKey:        omdbKey,
		omdbURL:        defaultOMDBURL,
		openLibraryURL: defaultOpenLibraryURL,
	}
}

// MovieCover looks up a poster URL for a movie or TV show by title and
// optional release year.
func (c *Client) MovieCover(ctx context.Context, title, year string) (string, error) {
	if c.omdbKey == "" {
		return "", ErrNotFound
	}

	q := url.Values{}
	q.Set("t", title)
	if year != "" {
		q.Set("y", year)
	}
	q.Set("apikey", c.omdbKey)

	var body struct {
		Poster string `json:"Poster"`
	}
	if err := c.getJSON(ctx, c.omdbURL+"?"+q.Encode(), &body); err != nil {
		return "", err
	}

	// OMDb answers "N/A" rather than omitting the field.
	if body.Poster == "" || body.Poster == "N/A" {
		return "", ErrNotFound
	}
	return body.Poster, nil
}

// BookCover looks up a cover URL for a book by title and optional author.
func (c *Client) BookCover(ctx context.Context, title, author string) (string, error) {
	q := url.Values{}
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	}
	q.Set("limit", "1")

	var body struct {
		Docs []struct {
			CoverID int `json:"cover_i"`
		} `json:"docs"`
	}
	if err := c.getJSON(ctx, c.openLibraryURL+"?"+q.Encode(), &body); err != nil {
		return "", err
	}

	if len(body.Docs) == 0 || body.Docs[0].CoverID == 0 {
		return "", ErrNotFound
	}
	return fmt.Sprintf(openLibraryCoverURL, body.Docs[0].CoverID), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return clierr.Newf(clierr.LookupFailed, "building cover request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return clierr.Newf(clierr.LookupFailed, "cover lookup failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return clierr.Newf(clierr.LookupFailed, "cover lookup failed: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return clierr.Newf(clierr.LookupFailed, "decoding cover response: %v", err)
	}
	return nil
}
