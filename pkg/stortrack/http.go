package stortrack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

type httpClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter
}

// storesResponse is the JSON envelope for store search results.
type storesResponse struct {
	Stores []Store `json:"stores"`
}

// competitorsResponse is the JSON envelope for competitor discovery results.
type competitorsResponse struct {
	CompetitorStores []Store `json:"competitorstores"`
}

// ratesResponse is the JSON envelope for historical rate results.
type ratesResponse struct {
	Rates []RateData `json:"rates"`
}

func (c *httpClient) FindStoresByAddress(ctx context.Context, query StoreQuery) ([]Store, error) {
	if query.City == "" || query.State == "" {
		return nil, eris.New("stortrack: city and state are required")
	}

	params := url.Values{
		"city":  {query.City},
		"state": {query.State},
	}
	if query.Country != "" {
		params.Set("country", query.Country)
	}
	if query.Zip != "" {
		params.Set("zip", query.Zip)
	}
	if query.StoreName != "" {
		params.Set("storename", query.StoreName)
	}
	if query.CompanyName != "" {
		params.Set("companyname", query.CompanyName)
	}

	var resp storesResponse
	if err := c.get(ctx, "stores/search", params, &resp); err != nil {
		return nil, eris.Wrap(err, "stortrack: find stores")
	}
	return resp.Stores, nil
}

func (c *httpClient) FindCompetitors(ctx context.Context, storeID int64, radiusMiles float64) ([]Store, error) {
	params := url.Values{
		"coveragezone": {fmt.Sprintf("%g", radiusMiles)},
	}

	var resp competitorsResponse
	path := fmt.Sprintf("stores/%d/competitors", storeID)
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, eris.Wrapf(err, "stortrack: find competitors for store %d", storeID)
	}

	// The subject can appear in its own competitor list.
	competitors := make([]Store, 0, len(resp.CompetitorStores))
	for _, s := range resp.CompetitorStores {
		if s.StoreID == storeID {
			continue
		}
		competitors = append(competitors, s)
	}
	return competitors, nil
}

func (c *httpClient) FetchHistoricalRates(ctx context.Context, storeID int64, from, to string) ([]RateData, error) {
	params := url.Values{
		"from": {from},
		"to":   {to},
	}

	var resp ratesResponse
	path := fmt.Sprintf("stores/%d/rates", storeID)
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, eris.Wrapf(err, "stortrack: fetch rates for store %d", storeID)
	}
	return resp.Rates, nil
}

// get performs a rate-limited, authenticated GET and decodes the JSON body.
func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit")
	}

	reqURL := strings.TrimSuffix(c.baseURL, "/") + "/" + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read body")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "parse response")
	}
	return nil
}
