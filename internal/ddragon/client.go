package ddragon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
)

const BaseURL = "https://ddragon.leagueoflegends.com"

var ErrStatus = errors.New("unexpected data dragon status")

type VersionsResponse []string

type ChampionsResponse struct {
	Type    string              `json:"type"`
	Format  string              `json:"format"`
	Version string              `json:"version"`
	Data    map[string]Champion `json:"data"`
}

type Champion struct {
	ID    string   `json:"id"`
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	Image struct {
		Full string `json:"full"`
	} `json:"image"`
}

// cachedAsset is what the client remembers about a champion document to
// revalidate it with If-None-Match.
type cachedAsset struct {
	etag         string
	cacheControl string
	expiresAt    time.Time
}

// Client reads static champion data from the Data Dragon CDN. Champion
// documents are cached in memory and revalidated with their ETag once their
// max-age has passed.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedAsset
}

func NewClient(baseURL, version string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
		cache:      make(map[string]cachedAsset),
	}
}

// Version is the fixed content version the client reads.
func (c *Client) Version() string {
	return c.version
}

// ImageURL returns the square portrait URL for a Data Dragon champion ID.
func (c *Client) ImageURL(championID string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", c.baseURL, c.version, championID)
}

// Versions lists every published content version, newest first.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	var versions VersionsResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/versions.json", &versions); err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no versions available")
	}
	return versions, nil
}

// Champions fetches the champion summary document for a version.
func (c *Client) Champions(ctx context.Context, version string) (*ChampionsResponse, error) {
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.baseURL, version)
	var resp ChampionsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch champions: %w", err)
	}
	return &resp, nil
}

// ChampionImageURL builds an image URL from a champion's image file name.
func (c *Client) ChampionImageURL(version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s", c.baseURL, version, file)
}

// ChampionAsset returns cache metadata for a champion's detail document.
// A fresh cached entry is served without a request; a stale one is
// revalidated and a 304 counts as served from cache.
func (c *Client) ChampionAsset(ctx context.Context, championID string) (domain.Asset, error) {
	asset := domain.Asset{
		Champion: championID,
		Version:  c.version,
		ImageURL: c.ImageURL(championID),
	}

	c.mu.Lock()
	cached, ok := c.cache[championID]
	c.mu.Unlock()

	if ok && c.now().Before(cached.expiresAt) {
		asset.ETag = cached.etag
		asset.CacheControl = cached.cacheControl
		asset.FromCache = true
		return asset, nil
	}

	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion/%s.json", c.baseURL, c.version, championID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return asset, err
	}
	if ok && cached.etag != "" {
		req.Header.Set("If-None-Match", cached.etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return asset, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusNotModified:
		asset.FromCache = true
		asset.ETag = cached.etag
		asset.CacheControl = cached.cacheControl
		if cc := resp.Header.Get("Cache-Control"); cc != "" {
			asset.CacheControl = cc
		}
	case http.StatusOK:
		asset.ETag = resp.Header.Get("ETag")
		asset.CacheControl = resp.Header.Get("Cache-Control")
	default:
		return asset, fmt.Errorf("%w: %d for %s", ErrStatus, resp.StatusCode, championID)
	}

	c.mu.Lock()
	c.cache[championID] = cachedAsset{
		etag:         asset.ETag,
		cacheControl: asset.CacheControl,
		expiresAt:    c.now().Add(maxAge(asset.CacheControl)),
	}
	c.mu.Unlock()

	return asset, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// maxAge extracts the max-age directive. Missing or invalid directives and
// no-cache mean the entry must be revalidated on every use.
func maxAge(cacheControl string) time.Duration {
	var age time.Duration
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))
		if directive == "no-cache" || directive == "no-store" {
			return 0
		}
		if v, ok := strings.CutPrefix(directive, "max-age="); ok {
			secs, err := strconv.Atoi(v)
			if err != nil || secs < 0 {
				return 0
			}
			age = time.Duration(secs) * time.Second
		}
	}
	return age
}
