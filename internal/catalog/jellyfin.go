package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/httpclient"
	"github.com/Castaway-Media/castaway/internal/model"
)

const (
	ticksPerSecond = 10_000_000

	// items shorter than this are unschedulable noise (trailers, theme clips)
	minRuntimeSeconds = 30

	pageSize = 500
)

// ErrUnavailable is returned when the catalog cannot be reached after the
// retry budget is spent.
var ErrUnavailable = errors.New("catalog unavailable")

// JellyfinClient talks to a Jellyfin-compatible server with API-key auth.
type JellyfinClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   httpclient.RetryPolicy
}

var _ Client = (*JellyfinClient)(nil)

func NewJellyfinClient(baseURL, apiKey string, timeout time.Duration) *JellyfinClient {
	return &JellyfinClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpclient.WithTimeout(timeout),
		retry:   httpclient.DefaultRetryPolicy,
	}
}

func (c *JellyfinClient) header() http.Header {
	h := http.Header{}
	h.Set("X-Emby-Token", c.apiKey)
	h.Set("Accept", "application/json")
	return h
}

type jfItem struct {
	ID                string   `json:"Id"`
	Name              string   `json:"Name"`
	Type              string   `json:"Type"`
	ParentID          string   `json:"ParentId"`
	Genres            []string `json:"Genres"`
	RunTimeTicks      int64    `json:"RunTimeTicks"`
	SeriesName        string   `json:"SeriesName"`
	ParentIndexNumber int      `json:"ParentIndexNumber"`
	IndexNumber       int      `json:"IndexNumber"`
	Overview          string   `json:"Overview"`
}

type jfItemsPage struct {
	Items            []jfItem `json:"Items"`
	TotalRecordCount int      `json:"TotalRecordCount"`
}

func (c *JellyfinClient) ListItems(ctx context.Context, libraryID string, kinds []string, genres []string) ([]Item, error) {
	includeTypes := make([]string, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case model.ItemMovie:
			includeTypes = append(includeTypes, "Movie")
		case model.ItemEpisode:
			includeTypes = append(includeTypes, "Episode")
		}
	}
	if len(includeTypes) == 0 {
		includeTypes = []string{"Movie", "Episode"}
	}

	var out []Item
	start := 0
	for {
		q := url.Values{}
		q.Set("ParentId", libraryID)
		q.Set("Recursive", "true")
		q.Set("IncludeItemTypes", strings.Join(includeTypes, ","))
		q.Set("Fields", "Genres,RunTimeTicks,SeriesName,ParentIndexNumber,IndexNumber,Overview")
		q.Set("SortBy", "SortName")
		q.Set("SortOrder", "Ascending")
		q.Set("Limit", fmt.Sprint(pageSize))
		q.Set("StartIndex", fmt.Sprint(start))
		if len(genres) > 0 {
			q.Set("Genres", strings.Join(genres, ","))
		}

		var page jfItemsPage
		if err := c.getJSON(ctx, "/Items?"+q.Encode(), &page); err != nil {
			return nil, err
		}

		for _, it := range page.Items {
			item := toItem(it)
			if item.Runtime < minRuntimeSeconds {
				continue
			}
			out = append(out, item)
		}

		start += pageSize
		if start >= page.TotalRecordCount {
			break
		}
	}

	log.Debug().
		Str("library_id", libraryID).
		Strs("genres", genres).
		Int("items", len(out)).
		Msg("catalog: listed playable items")
	return out, nil
}

func (c *JellyfinClient) ListGenres(ctx context.Context, libraryID string) ([]string, error) {
	q := url.Values{}
	q.Set("ParentId", libraryID)

	var page struct {
		Items []struct {
			Name string `json:"Name"`
		} `json:"Items"`
	}
	if err := c.getJSON(ctx, "/Genres?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	genres := make([]string, 0, len(page.Items))
	for _, g := range page.Items {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}
	return genres, nil
}

func (c *JellyfinClient) GetItem(ctx context.Context, itemID string) (*Item, error) {
	var it jfItem
	if err := c.getJSON(ctx, "/Items/"+url.PathEscape(itemID), &it); err != nil {
		return nil, err
	}
	item := toItem(it)
	return &item, nil
}

func (c *JellyfinClient) StreamURL(itemID string) string {
	return c.baseURL + "/Videos/" + url.PathEscape(itemID) + "/stream?api_key=" + url.QueryEscape(c.apiKey)
}

func (c *JellyfinClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := httpclient.GetWithRetry(ctx, c.http, c.baseURL+path, c.header(), c.retry)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("catalog request failed")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

func toItem(it jfItem) Item {
	kind := model.ItemMovie
	if it.Type == "Episode" {
		kind = model.ItemEpisode
	}
	return Item{
		ID:          it.ID,
		Name:        it.Name,
		Kind:        kind,
		LibraryID:   it.ParentID,
		Genres:      it.Genres,
		Runtime:     int(it.RunTimeTicks / ticksPerSecond),
		SeriesName:  it.SeriesName,
		Season:      it.ParentIndexNumber,
		Episode:     it.IndexNumber,
		Description: it.Overview,
	}
}
