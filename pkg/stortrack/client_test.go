package stortrack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoloo1999/rca-app/internal/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL+"/api/", "user", "pass", WithRateLimit(1000))
	return srv, client
}

func TestFindStoresByAddress(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "pass", pass)

		assert.Equal(t, "/api/stores/search", r.URL.Path)
		assert.Equal(t, "Miami", r.URL.Query().Get("city"))
		assert.Equal(t, "FL", r.URL.Query().Get("state"))
		assert.Equal(t, "Public Storage", r.URL.Query().Get("storename"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stores":[
			{"storeid":101,"storename":"Public Storage Miami","address":"1 Main St","city":"Miami","state":"FL","zip":"33131","latitude":25.77,"longitude":-80.19}
		]}`))
	})

	stores, err := client.FindStoresByAddress(context.Background(), StoreQuery{
		City: "Miami", State: "FL", StoreName: "Public Storage",
	})
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, int64(101), stores[0].StoreID)
	assert.Equal(t, "Public Storage Miami", stores[0].StoreName)
}

func TestFindStoresByAddress_MissingCityState(t *testing.T) {
	t.Parallel()

	client := NewClient("http://unused", "u", "p")
	_, err := client.FindStoresByAddress(context.Background(), StoreQuery{City: "Miami"})
	assert.Error(t, err)
}

func TestFindCompetitors_ExcludesSubject(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stores/101/competitors", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("coveragezone"))

		w.Write([]byte(`{"competitorstores":[
			{"storeid":101,"storename":"Subject"},
			{"storeid":202,"storename":"Comp A","distance":1.2},
			{"storeid":303,"storename":"Comp B","distance":4.8}
		]}`))
	})

	competitors, err := client.FindCompetitors(context.Background(), 101, 5.0)
	require.NoError(t, err)
	require.Len(t, competitors, 2)
	assert.Equal(t, int64(202), competitors[0].StoreID)
	assert.InDelta(t, 1.2, competitors[0].Distance, 0.001)
}

func TestFetchHistoricalRates(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stores/202/rates", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("to"))

		w.Write([]byte(`{"rates":[
			{"storeid":202,"size":"5x5","spacetype":"Unit","isclimatecontrolled":true,"regularprice":60,"onlineprice":55,"date":"2024-01-15"}
		]}`))
	})

	rates, err := client.FetchHistoricalRates(context.Background(), 202, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "5x5", rates[0].Size)
	assert.True(t, rates[0].ClimateControlled)
}

func TestFetchHistoricalRates_ServerError(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	})

	_, err := client.FetchHistoricalRates(context.Background(), 202, "2024-01-01", "2024-01-31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 402")
}

func TestStoreToFacility(t *testing.T) {
	t.Parallel()

	s := Store{
		StoreID: 101, StoreName: "Public Storage Miami", Address: "1 Main St",
		City: "Miami", State: "FL", Zip: "33131",
		Latitude: 25.77, Longitude: -80.19, Distance: 2.4, YearBuilt: 1999, SquareFeet: 45000,
	}

	f := s.ToFacility()
	assert.Equal(t, int64(101), f.ID)
	assert.Equal(t, "Public Storage Miami", f.Name)
	assert.InDelta(t, 2.4, f.DistanceMiles, 0.001)
	assert.Equal(t, 1999, f.YearBuilt)
}

func TestRateDataToRecord(t *testing.T) {
	t.Parallel()

	r := RateData{
		StoreID: 202, Size: "10x10", SpaceType: "Unit", Description: "Drive Up",
		DriveUp: true, RegularPrice: 120, OnlinePrice: 110, Promo: "50% off", Date: "2024-01-15",
	}

	rec, err := r.ToRecord()
	require.NoError(t, err)
	assert.Equal(t, int64(202), rec.FacilityID)
	assert.Equal(t, "Unit", rec.UnitType)
	assert.True(t, rec.DriveUp)
	assert.Equal(t, "2024-01-15", rec.DateKey())
	assert.Equal(t, model.SourceAPI, rec.Source)

	r.Date = "01/15/2024"
	_, err = r.ToRecord()
	assert.Error(t, err)
}

func TestStub(t *testing.T) {
	t.Parallel()

	stub := &Stub{
		Competitors: []Store{{StoreID: 101}, {StoreID: 202}},
		Rates: []RateData{
			{StoreID: 202, Date: "2024-01-05"},
			{StoreID: 202, Date: "2024-02-05"},
			{StoreID: 303, Date: "2024-01-05"},
		},
	}

	competitors, err := stub.FindCompetitors(context.Background(), 101, 5)
	require.NoError(t, err)
	require.Len(t, competitors, 1)
	assert.Equal(t, int64(202), competitors[0].StoreID)

	rates, err := stub.FetchHistoricalRates(context.Background(), 202, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "2024-01-05", rates[0].Date)
}
