package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmer-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const userLookupBody = `{
  "success": true,
  "data": {
    "full_name": "Mary Banda",
    "farmer_profile": {"location": "Chongwe"},
    "farms": [
      {
        "name": "Banda Farm",
        "size": 3.5,
        "location": "Chongwe",
        "fields": [
          {"name": "East", "size": "1.5", "soil_type": "sandy",
           "crops": [{"name": "Cassava", "variety": "Mweru", "status": "growing", "planting_date": null}]}
        ]
      }
    ]
  }
}`

func TestFindFarmer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		assert.Equal(t, "mary@example.com", r.URL.Query().Get("email"))
		assert.Empty(t, r.URL.Query().Get("phone"))
		assert.Equal(t, "basic,farms,crops", r.URL.Query().Get("include"))
		w.Write([]byte(userLookupBody))
	}))
	defer srv.Close()

	c := NewClient(Config{UserLookupURL: srv.URL, AnonKey: "anon"}, zap.NewNop())
	profile, err := c.FindFarmer(context.Background(), "mary@example.com", "")
	require.NoError(t, err)

	assert.Equal(t, "Mary Banda", profile.FullName)
	assert.Equal(t, "Chongwe", profile.Location)
	require.Len(t, profile.Farms, 1)
	assert.Equal(t, models.Quantity("3.5"), profile.Farms[0].Size)
	require.Len(t, profile.Farms[0].Fields, 1)
	assert.Equal(t, models.Quantity("1.5"), profile.Farms[0].Fields[0].Size)
	assert.Equal(t, models.CropRecord{Name: "Cassava", Variety: "Mweru", Status: "growing"}, profile.Farms[0].Fields[0].Crops[0])
}

func TestFindFarmer_Misses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no data", status: http.StatusOK, body: `{"success": false, "data": null}`},
		{name: "not found", status: http.StatusNotFound, body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{UserLookupURL: srv.URL}, zap.NewNop())
			_, err := c.FindFarmer(context.Background(), "", "+260970000000")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFindFarmer_NoIdentity(t *testing.T) {
	c := NewClient(Config{UserLookupURL: "http://unused"}, zap.NewNop())

	_, err := c.FindFarmer(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindFarmer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{UserLookupURL: srv.URL}, zap.NewNop())
	_, err := c.FindFarmer(context.Background(), "a@b.c", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFarmSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mary@example.com", body["email"])
		w.Write([]byte(`{"farm_name":"Banda Farm","location":"Chongwe","size":3,"crops":["maize","beans"]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{MarketingDataURL: srv.URL}, zap.NewNop())
	summary, err := c.FarmSummary(context.Background(), "mary@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Banda Farm", summary.FarmName)
	assert.Equal(t, "Chongwe", summary.Location)
	assert.Equal(t, models.Quantity("3"), summary.Size)
	assert.Equal(t, []interface{}{"maize", "beans"}, summary.Crops)
}
