package services

import (
	"github.com/swifttransit/busline-backend/internal/database"
)

// Quote is a price for one seat on a trip, as returned by the pricing
// collaborator. The scheduling core never computes dynamic prices itself; it
// stores a base price and consumes whatever the pricer returns.
type Quote struct {
	TripID   string  `json:"trip_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PricingFunc quotes a price for a trip. The user ID is optional and lets a
// dynamic implementation personalize the quote.
type PricingFunc func(tripID, agencyID, userID string) (*Quote, error)

// BasePricePricer returns a PricingFunc that quotes the trip's stored base
// price. It is the default collaborator when no dynamic pricing service is
// configured.
func BasePricePricer(tripRepo *database.TripRepository, currency string) PricingFunc {
	return func(tripID, agencyID, _ string) (*Quote, error) {
		trip, err := tripRepo.GetByID(tripID, agencyID)
		if err != nil {
			return nil, notFoundOnNoRows(err, "trip", tripID)
		}
		return &Quote{TripID: trip.ID, Amount: trip.BasePrice, Currency: currency}, nil
	}
}
