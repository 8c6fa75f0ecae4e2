package places

import "github.com/vicesapp/vendor-service/pkg/models"

// Samples returns the fixed fallback dataset for a vendor kind, offset so
// that the sample points sit near the requested center. The data is
// deterministic: the same center always yields the same results.
func Samples(kind models.Category, lat, lng float64) []models.VendorResult {
	if kind == models.CategoryAlcohol {
		return sampleAlcohol(lat, lng)
	}
	return sampleCannabis(lat, lng)
}

func sampleCannabis(lat, lng float64) []models.VendorResult {
	return []models.VendorResult{
		{
			ID:           "sample_cannabis_1",
			Name:         "Green Valley Cannabis Co.",
			FullAddress:  "123 Cannabis St, Calgary, AB T2G 1A6",
			Phone:        "+14035550123",
			Rating:       4.5,
			Latitude:     lat + 0.01,
			Longitude:    lng + 0.01,
			Category:     models.CategoryCannabis.Display(),
			Verified:     false,
			Source:       models.SourceSample,
			Website:      "https://greenvalley.ca",
			GoogleID:     "sample_cannabis_1",
			PlaceID:      "sample_cannabis_1",
			Reviews:      150,
			HoursSummary: "Open until 10:00 PM",
			WorkingHours: map[string]string{
				"Monday":    "9:00 AM - 10:00 PM",
				"Tuesday":   "9:00 AM - 10:00 PM",
				"Wednesday": "9:00 AM - 10:00 PM",
				"Thursday":  "9:00 AM - 10:00 PM",
				"Friday":    "9:00 AM - 11:00 PM",
				"Saturday":  "9:00 AM - 11:00 PM",
				"Sunday":    "10:00 AM - 9:00 PM",
			},
		},
		{
			ID:           "sample_cannabis_2",
			Name:         "Mountain High Cannabis",
			FullAddress:  "456 Hemp Ave, Calgary, AB T2S 0B2",
			Phone:        "+14035550456",
			Rating:       4.2,
			Latitude:     lat - 0.02,
			Longitude:    lng + 0.015,
			Category:     models.CategoryCannabis.Display(),
			Verified:     true,
			Source:       models.SourceSample,
			Website:      "https://mountainhigh.ca",
			GoogleID:     "sample_cannabis_2",
			PlaceID:      "sample_cannabis_2",
			Reviews:      200,
			HoursSummary: "Open until 11:00 PM",
			WorkingHours: map[string]string{
				"Monday":    "8:00 AM - 11:00 PM",
				"Tuesday":   "8:00 AM - 11:00 PM",
				"Wednesday": "8:00 AM - 11:00 PM",
				"Thursday":  "8:00 AM - 11:00 PM",
				"Friday":    "8:00 AM - 12:00 AM",
				"Saturday":  "8:00 AM - 12:00 AM",
				"Sunday":    "10:00 AM - 10:00 PM",
			},
		},
	}
}

func sampleAlcohol(lat, lng float64) []models.VendorResult {
	return []models.VendorResult{
		{
			ID:           "sample_alcohol_1",
			Name:         "Calgary Liquor Depot",
			FullAddress:  "789 Booze Blvd, Calgary, AB T2P 1H7",
			Phone:        "+14035550789",
			Rating:       4.3,
			Latitude:     lat + 0.005,
			Longitude:    lng - 0.008,
			Category:     models.CategoryAlcohol.Display(),
			Verified:     false,
			Source:       models.SourceSample,
			Website:      "https://calgaryliquor.ca",
			GoogleID:     "sample_alcohol_1",
			PlaceID:      "sample_alcohol_1",
			Reviews:      180,
			HoursSummary: "Open until 12:00 AM",
			WorkingHours: map[string]string{
				"Monday":    "10:00 AM - 12:00 AM",
				"Tuesday":   "10:00 AM - 12:00 AM",
				"Wednesday": "10:00 AM - 12:00 AM",
				"Thursday":  "10:00 AM - 12:00 AM",
				"Friday":    "10:00 AM - 2:00 AM",
				"Saturday":  "10:00 AM - 2:00 AM",
				"Sunday":    "11:00 AM - 11:00 PM",
			},
		},
		{
			ID:           "sample_alcohol_2",
			Name:         "Premium Wine & Spirits",
			FullAddress:  "321 Vine Street, Calgary, AB T2R 0X8",
			Phone:        "+14035550321",
			Rating:       4.6,
			Latitude:     lat - 0.008,
			Longitude:    lng + 0.012,
			Category:     models.CategoryAlcohol.Display(),
			Verified:     true,
			Source:       models.SourceSample,
			Website:      "https://premiumwine.ca",
			GoogleID:     "sample_alcohol_2",
			PlaceID:      "sample_alcohol_2",
			Reviews:      95,
			HoursSummary: "Open until 11:00 PM",
			WorkingHours: map[string]string{
				"Monday":    "9:00 AM - 11:00 PM",
				"Tuesday":   "9:00 AM - 11:00 PM",
				"Wednesday": "9:00 AM - 11:00 PM",
				"Thursday":  "9:00 AM - 11:00 PM",
				"Friday":    "9:00 AM - 1:00 AM",
				"Saturday":  "9:00 AM - 1:00 AM",
				"Sunday":    "10:00 AM - 10:00 PM",
			},
		},
	}
}
