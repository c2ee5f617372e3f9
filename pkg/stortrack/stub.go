package stortrack

import "context"

// Stub is a canned-response Client for demos and tests that must not touch
// the paid API.
type Stub struct {
	Stores      []Store
	Competitors []Store
	Rates       []RateData
	Err         error
}

var _ Client = (*Stub)(nil)

func (s *Stub) FindStoresByAddress(_ context.Context, _ StoreQuery) ([]Store, error) {
	return s.Stores, s.Err
}

func (s *Stub) FindCompetitors(_ context.Context, storeID int64, _ float64) ([]Store, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	competitors := make([]Store, 0, len(s.Competitors))
	for _, c := range s.Competitors {
		if c.StoreID == storeID {
			continue
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}

func (s *Stub) FetchHistoricalRates(_ context.Context, storeID int64, from, to string) ([]RateData, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var rates []RateData
	for _, r := range s.Rates {
		if r.StoreID != storeID {
			continue
		}
		if r.Date < from || r.Date > to {
			continue
		}
		rates = append(rates, r)
	}
	return rates, nil
}
