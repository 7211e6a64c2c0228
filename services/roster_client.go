package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Wizi44/PNodes/config"
	"github.com/Wizi44/PNodes/models"
	"github.com/Wizi44/PNodes/utils"
)

// RosterSource delivers an already-built node roster once per fetch
// cycle. The analytics core never crawls peers itself.
type RosterSource interface {
	FetchRoster(ctx context.Context) ([]models.Node, error)
}

// RosterClient fetches the raw node list from the collector endpoint and
// normalizes each record into a canonical Node, enriching coordinates
// from GeoIP when a record carries only an IP.
type RosterClient struct {
	cfg        *config.Config
	geo        *utils.GeoResolver
	httpClient *http.Client
}

func NewRosterClient(cfg *config.Config, geo *utils.GeoResolver) *RosterClient {
	timeout := cfg.RosterTimeoutDuration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RosterClient{
		cfg: cfg,
		geo: geo,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (c *RosterClient) FetchRoster(ctx context.Context) ([]models.Node, error) {
	var raw []map[string]interface{}
	var err error

	maxRetries := c.cfg.Roster.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	delay := 200 * time.Millisecond
	for attempt := 0; attempt < maxRetries; attempt++ {
		raw, err = c.fetchOnce(ctx)
		if err == nil {
			break
		}
		if attempt < maxRetries-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("roster fetch failed after %d attempts: %w", maxRetries, err)
	}

	roster := make([]models.Node, 0, len(raw))
	for _, record := range raw {
		node := utils.NormalizeRecord(record)
		if node.ID == "" {
			continue
		}
		if node.Lat == 0 && node.Lon == 0 && node.IP != "" {
			if loc, ok := c.geo.Lookup(node.IP); ok {
				node.Lat = loc.Lat
				node.Lon = loc.Lon
				node.Country = loc.Country
				node.City = loc.City
			}
		}
		roster = append(roster, node)
	}

	return roster, nil
}

func (c *RosterClient) fetchOnce(ctx context.Context) ([]map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Roster.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error %d from roster endpoint", resp.StatusCode)
	}

	var raw []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	return raw, nil
}
