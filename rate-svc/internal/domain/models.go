package domain

import "time"

const StatusApproved = "approved"

type Review struct {
	ID            int       `json:"id"`
	RestaurantID  int       `json:"restaurantId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateInput struct {
	RestaurantID  int    `json:"restaurantId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// Stats aggregates every review of a restaurant. RatingBreakdown always has
// the keys "1" through "5".
type Stats struct {
	TotalReviews    int            `json:"totalReviews"`
	AverageRating   float64        `json:"averageRating"`
	RatingBreakdown map[string]int `json:"ratingBreakdown"`
}

type ReviewList struct {
	Reviews []Review `json:"reviews"`
	Stats   Stats    `json:"stats"`
}
