package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/j-cqln/reverb/shared/go/models"
)

const (
	spotifyAPIBase   = "https://api.spotify.com/v1/"
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	randomSampleSeed = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// SpotifyClient implements Client against the Spotify web API using the
// client-credentials flow.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	apiBase      string
	tokenURL     string

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a Spotify catalog client.
func NewSpotifyClient(clientID, clientSecret string) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiBase:  spotifyAPIBase,
		tokenURL: spotifyTokenURL,
	}
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type spotifySearchResponse struct {
	Tracks *spotifyItemsPage `json:"tracks,omitempty"`
	Albums *spotifyItemsPage `json:"albums,omitempty"`
}

type spotifyItemsPage struct {
	Items []spotifyItem `json:"items"`
}

type spotifyItem struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Images  []spotifyImage  `json:"images"`
	Album   *spotifyItem    `json:"album,omitempty"`
	Artists []spotifyArtist `json:"artists"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyImage struct {
	URL string `json:"url"`
}

// authenticate obtains an access token, reusing a cached one until expiry.
func (c *SpotifyClient) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify auth failed: %s - %s", resp.Status, string(body))
	}

	var tokenResp spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return nil
}

// doRequest performs an authenticated GET against the Spotify API.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	apiURL := c.apiBase + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

var errNotFound = errors.New("catalog item not found")

// Search queries the catalog for items of one kind by name.
func (c *SpotifyClient) Search(ctx context.Context, query string, kind models.Kind, limit int) ([]Item, error) {
	params := url.Values{
		"q":      []string{query},
		"type":   []string{string(kind)},
		"limit":  []string{fmt.Sprintf("%d", limit)},
		"market": []string{"US"},
	}

	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return nil, err
	}

	page := result.Tracks
	if kind == models.KindAlbum {
		page = result.Albums
	}
	if page == nil {
		return []Item{}, nil
	}

	items := make([]Item, 0, len(page.Items))
	for _, si := range page.Items {
		items = append(items, convertItem(si, kind))
	}

	return items, nil
}

// GetByID retrieves one item, or nil when the catalog has no such id.
func (c *SpotifyClient) GetByID(ctx context.Context, kind models.Kind, id string) (*Item, error) {
	var si spotifyItem
	if err := c.doRequest(ctx, string(kind)+"s/"+id, nil, &si); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	item := convertItem(si, kind)
	return &item, nil
}

// GetManyByIDs retrieves items in batches, tracks first and albums second,
// each group in request order regardless of how the provider orders its
// response. An id the catalog no longer resolves yields an item carrying
// only the id and kind, so positional pairing with the caller's records
// survives catalog gaps.
func (c *SpotifyClient) GetManyByIDs(ctx context.Context, ids models.ContentIDs) ([]Item, error) {
	items := make([]Item, 0, len(ids.Tracks)+len(ids.Albums))

	if len(ids.Tracks) > 0 {
		params := url.Values{
			"ids":    []string{strings.Join(ids.Tracks, ",")},
			"market": []string{"US"},
		}
		var result struct {
			Tracks []spotifyItem `json:"tracks"`
		}
		if err := c.doRequest(ctx, "tracks", params, &result); err != nil {
			return nil, err
		}
		items = append(items, orderByRequest(result.Tracks, ids.Tracks, models.KindTrack)...)
	}

	if len(ids.Albums) > 0 {
		params := url.Values{
			"ids":    []string{strings.Join(ids.Albums, ",")},
			"market": []string{"US"},
		}
		var result struct {
			Albums []spotifyItem `json:"albums"`
		}
		if err := c.doRequest(ctx, "albums", params, &result); err != nil {
			return nil, err
		}
		items = append(items, orderByRequest(result.Albums, ids.Albums, models.KindAlbum)...)
	}

	return items, nil
}

// orderByRequest returns one item per requested id, in request order. Null
// payload entries (Spotify's shape for unknown ids) are dropped and the
// missing id comes back as a bare item.
func orderByRequest(payload []spotifyItem, ids []string, kind models.Kind) []Item {
	found := make(map[string]Item, len(payload))
	for _, si := range payload {
		if si.ID == "" {
			continue
		}
		found[si.ID] = convertItem(si, kind)
	}

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := found[id]; ok {
			items = append(items, item)
			continue
		}
		items = append(items, Item{ID: id, Kind: kind})
	}
	return items
}

// GetImage retrieves the item's display image url.
func (c *SpotifyClient) GetImage(ctx context.Context, kind models.Kind, id string) (string, error) {
	item, err := c.GetByID(ctx, kind, id)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", nil
	}
	return item.ImageURL, nil
}

// RandomItems samples up to n distinct items of the kind by searching for
// random single characters and picking from the results. Attempts are
// capped, so a sparse catalog returns what was gathered instead of retrying
// forever.
func (c *SpotifyClient) RandomItems(ctx context.Context, kind models.Kind, n int) ([]Item, error) {
	seen := make(map[string]bool, n)
	items := make([]Item, 0, n)

	for attempts := 0; len(items) < n && attempts < 4*n; attempts++ {
		query := "%" + string(randomSampleSeed[rand.Intn(len(randomSampleSeed))]) + "%"
		results, err := c.Search(ctx, query, kind, 10)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			continue
		}

		pick := results[rand.Intn(len(results))]
		if seen[pick.ID] {
			continue
		}
		seen[pick.ID] = true
		items = append(items, pick)
	}

	return items, nil
}

// convertItem maps a Spotify payload onto the common Item shape. Tracks
// take their image from the parent album.
func convertItem(si spotifyItem, kind models.Kind) Item {
	imageURL := ""
	if kind == models.KindTrack && si.Album != nil && len(si.Album.Images) > 0 {
		imageURL = si.Album.Images[0].URL
	} else if len(si.Images) > 0 {
		imageURL = si.Images[0].URL
	}

	artists := make([]string, 0, len(si.Artists))
	for _, a := range si.Artists {
		artists = append(artists, a.Name)
	}

	return Item{
		ID:       si.ID,
		Kind:     kind,
		Name:     si.Name,
		ImageURL: imageURL,
		Artists:  artists,
	}
}
