package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRestaurantsAtFiltersByTimeAndPostcode(t *testing.T) {
	setupTest(t)

	restaurantID, _ := createRestaurant(t, "pizza@example.com", "09:00", "22:00", "47051")

	tests := []struct {
		name     string
		postcode string
		probe    string
		visible  bool
	}{
		{"open and in area", "47051", "14:30", true},
		{"after closing", "47051", "23:00", false},
		{"before opening", "47051", "08:59", false},
		{"at opening boundary", "47051", "09:00", true},
		{"at closing boundary", "47051", "22:00", true},
		{"wrong postcode", "40210", "14:30", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			restaurants, err := openRestaurantsAt(tc.postcode, tc.probe)
			require.NoError(t, err)
			if tc.visible {
				require.Len(t, restaurants, 1)
				assert.Equal(t, restaurantID, restaurants[0].AccountID)
			} else {
				assert.Empty(t, restaurants)
			}
		})
	}
}

func TestOpenRestaurantsAtMultipleServiceAreas(t *testing.T) {
	setupTest(t)

	createRestaurant(t, "pizza@example.com", "00:00", "23:59", "47051", "47053")
	createRestaurant(t, "burger@example.com", "00:00", "23:59", "47053")

	both, err := openRestaurantsAt("47053", "12:00")
	require.NoError(t, err)
	assert.Len(t, both, 2)

	one, err := openRestaurantsAt("47051", "12:00")
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestListRestaurantsUsesCallerPostcode(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	_, customerToken := createCustomer(t, "max@example.com", "47051")
	// Always-open restaurant so the wall-clock probe in the handler can't
	// flake the test.
	createRestaurant(t, "pizza@example.com", "00:00", "23:59", "47051")
	createRestaurant(t, "faraway@example.com", "00:00", "23:59", "99999")

	recorder := performJSON(t, router, http.MethodGet, "/customer/restaurants", customerToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "47051", body["postcode"])
	restaurants, ok := body["restaurants"].([]interface{})
	require.True(t, ok)
	assert.Len(t, restaurants, 1)
}

func TestCustomerProfileIncludesPostcode(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	_, customerToken := createCustomer(t, "max@example.com", "47051")

	recorder := performJSON(t, router, http.MethodGet, "/customer/me", customerToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "47051", body["postcode"])
	assert.Equal(t, "Max", body["first_name"])
	assert.Equal(t, "max@example.com", body["email"])
}
