// Package stortrack provides a client for the StorTrack market data API:
// store lookup by address, competitor discovery around a store, and paid
// historical rate retrieval.
package stortrack

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/amoloo1999/rca-app/internal/model"
)

// Client is the StorTrack API surface the application uses.
type Client interface {
	// FindStoresByAddress searches for stores matching the query. City and
	// state are required; the remaining fields narrow the match.
	FindStoresByAddress(ctx context.Context, query StoreQuery) ([]Store, error)

	// FindCompetitors returns competitor stores within the coverage zone
	// (miles) around the given store.
	FindCompetitors(ctx context.Context, storeID int64, radiusMiles float64) ([]Store, error)

	// FetchHistoricalRates retrieves rate observations for a store across the
	// inclusive date range. This is the paid operation: the provider bills
	// per day of coverage requested.
	FetchHistoricalRates(ctx context.Context, storeID int64, from, to string) ([]RateData, error)
}

// StoreQuery is the store search input.
type StoreQuery struct {
	Country     string
	State       string
	City        string
	Zip         string
	StoreName   string
	CompanyName string
}

// Store is a store as returned by the API.
type Store struct {
	StoreID    int64   `json:"storeid"`
	StoreName  string  `json:"storename"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Zip        string  `json:"zip"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Distance   float64 `json:"distance,omitempty"`
	YearBuilt  int     `json:"yearbuilt,omitempty"`
	SquareFeet int     `json:"sqft,omitempty"`
}

// ToFacility converts the wire store into the domain facility.
func (s Store) ToFacility() model.Facility {
	return model.Facility{
		ID:            s.StoreID,
		Name:          s.StoreName,
		Address:       s.Address,
		City:          s.City,
		State:         s.State,
		Zip:           s.Zip,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		DistanceMiles: s.Distance,
		YearBuilt:     s.YearBuilt,
		SquareFeet:    s.SquareFeet,
	}
}

// RateData is one rate observation as returned by the API.
type RateData struct {
	StoreID           int64   `json:"storeid"`
	Size              string  `json:"size"`
	SpaceType         string  `json:"spacetype"`
	Description       string  `json:"description"`
	ClimateControlled bool    `json:"isclimatecontrolled"`
	DriveUp           bool    `json:"isdriveup"`
	RegularPrice      float64 `json:"regularprice"`
	OnlinePrice       float64 `json:"onlineprice"`
	Promo             string  `json:"promo"`
	Date              string  `json:"date"`
}

// ToRecord converts the wire observation into a domain rate record. The
// collection date must be in YYYY-MM-DD form.
func (r RateData) ToRecord() (model.RateRecord, error) {
	collected, err := time.Parse(model.DateLayout, r.Date)
	if err != nil {
		return model.RateRecord{}, err
	}
	return model.RateRecord{
		FacilityID:        r.StoreID,
		Size:              r.Size,
		UnitType:          r.SpaceType,
		Description:       r.Description,
		ClimateControlled: r.ClimateControlled,
		DriveUp:           r.DriveUp,
		RegularRate:       r.RegularPrice,
		OnlineRate:        r.OnlinePrice,
		Promo:             r.Promo,
		DateCollected:     collected,
		Source:            model.SourceAPI,
	}, nil
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// NewClient creates a StorTrack API client with basic-auth credentials.
func NewClient(baseURL, username, password string, opts ...Option) Client {
	c := &httpClient{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(2, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
