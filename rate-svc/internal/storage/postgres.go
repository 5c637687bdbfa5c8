package storage

import (
	"context"
	"database/sql"

	"qrmenu/internal/apperr"
	"qrmenu/rate-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) RestaurantExists(ctx context.Context, restaurantID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)", restaurantID).Scan(&exists)
	if err != nil {
		return false, apperr.Storage(err, "check restaurant %d", restaurantID)
	}
	return exists, nil
}

func (r *PostgresRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO reviews (restaurant_id, customer_name, customer_email, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, review.RestaurantID, review.CustomerName, review.CustomerEmail, review.Rating, review.Comment, review.Status).
		Scan(&review.ID, &review.CreatedAt)
	return apperr.Storage(err, "insert review")
}

func (r *PostgresRepository) ListReviews(ctx context.Context, restaurantID, limit int) ([]domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, customer_name, customer_email, rating, comment, status, created_at
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, restaurantID, limit)
	if err != nil {
		return nil, apperr.Storage(err, "list reviews")
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.RestaurantID, &rev.CustomerName, &rev.CustomerEmail,
			&rev.Rating, &rev.Comment, &rev.Status, &rev.CreatedAt); err != nil {
			return nil, apperr.Storage(err, "scan review")
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "list reviews")
	}
	return reviews, nil
}

// RatingDistribution counts the restaurant's reviews per rating.
func (r *PostgresRepository) RatingDistribution(ctx context.Context, restaurantID int) (map[int]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT rating, COUNT(*) as count
		FROM reviews
		WHERE restaurant_id = $1
		GROUP BY rating
		ORDER BY rating
	`, restaurantID)
	if err != nil {
		return nil, apperr.Storage(err, "rating distribution")
	}
	defer rows.Close()

	distribution := make(map[int]int, 5)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, apperr.Storage(err, "scan rating distribution")
		}
		distribution[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "rating distribution")
	}
	return distribution, nil
}

// DeleteReview removes a review of the given restaurant. Reviews of other
// restaurants are reported as missing.
func (r *PostgresRepository) DeleteReview(ctx context.Context, restaurantID, reviewID int) error {
	result, err := r.DB.ExecContext(ctx,
		"DELETE FROM reviews WHERE id = $1 AND restaurant_id = $2", reviewID, restaurantID)
	if err != nil {
		return apperr.Storage(err, "delete review %d", reviewID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err, "delete review %d", reviewID)
	}
	if affected == 0 {
		return apperr.NotFound("review %d not found", reviewID)
	}
	return nil
}
