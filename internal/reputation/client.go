package reputation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avolkhin/bideval/internal/bids"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	apiURL      = "https://google.serper.dev/search"
	contentType = "application/json"

	// Serper time-window filter for the last 12 months.
	timeWindow = "qdr:y"
	// Max combined results requested per query.
	resultLimit = 10

	requestTimeout = 30 * time.Second

	// Upper bound on concurrent contractor lookups.
	maxConcurrentLookups = 5
)

// Client queries the Serper search API for contractor reputation signals.
// Every lookup fails closed: any error yields the neutral default profile
// and is never propagated to the caller.
type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func New(logger *zap.Logger, apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		APIURL: apiURL,
	}
}

type searchRequest struct {
	Query      string `json:"q"`
	TimeWindow string `json:"tbs"`
	Num        int    `json:"num"`
}

type searchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type searchResponse struct {
	Organic []searchResult `json:"organic"`
	News    []searchResult `json:"news"`
}

// Lookup researches a single contractor and returns its profile. A failed
// or impossible lookup returns the default profile.
func (c *Client) Lookup(ctx context.Context, contractorName string) bids.ContractorProfile {
	contractorName = strings.TrimSpace(contractorName)
	if contractorName == "" {
		c.logger.Warn("empty contractor name provided, returning default profile")
		return bids.DefaultProfile(contractorName)
	}

	if c.apiKey == "" {
		c.logger.Warn("no serper api key configured, returning default profile",
			zap.String("contractor", contractorName),
		)
		return bids.DefaultProfile(contractorName)
	}

	response, err := c.search(ctx, contractorName)
	if err != nil {
		c.logger.Error("contractor search failed, returning default profile",
			zap.String("contractor", contractorName),
			zap.Error(err),
		)
		return bids.DefaultProfile(contractorName)
	}

	return buildProfile(contractorName, response)
}

// LookupAll researches all contractors concurrently. Failures are isolated
// per contractor, so the returned slice always has one profile per valid
// name, in input order.
func (c *Client) LookupAll(ctx context.Context, contractorNames []string) []bids.ContractorProfile {
	valid := make([]string, 0, len(contractorNames))
	for _, name := range contractorNames {
		if strings.TrimSpace(name) != "" {
			valid = append(valid, name)
		}
	}

	if len(valid) == 0 {
		c.logger.Warn("no valid contractor names to research")
		return nil
	}

	profiles := make([]bids.ContractorProfile, len(valid))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, name := range valid {
		g.Go(func() error {
			profiles[i] = c.Lookup(ctx, name)
			return nil
		})
	}

	// Lookups never return errors; the group is the join barrier.
	_ = g.Wait()

	return profiles
}

func (c *Client) search(ctx context.Context, contractorName string) (*searchResponse, error) {
	payload := searchRequest{
		Query:      fmt.Sprintf("%s construction company reviews projects", contractorName),
		TimeWindow: timeWindow,
		Num:        resultLimit,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("make search request", zap.String("query", payload.Query))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	return &response, nil
}
