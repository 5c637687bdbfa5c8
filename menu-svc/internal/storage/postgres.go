package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/menu"
	"qrmenu/internal/pgerr"
	"qrmenu/menu-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const restaurantColumns = `id, name, email, COALESCE(phone, ''), COALESCE(address, ''), COALESCE(description, ''),
		COALESCE(logo, ''), password_hash, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...interface{}) error }) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(&rest.ID, &rest.Name, &rest.Email, &rest.Phone, &rest.Address, &rest.Description,
		&rest.Logo, &rest.PasswordHash, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO restaurants (name, email, password_hash, phone, address, description)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`,
		rest.Name, rest.Email, rest.PasswordHash, rest.Phone, rest.Address, rest.Description,
	).Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
	if pgerr.UniqueViolation(err) {
		return apperr.Conflict("restaurant with email %s already exists", rest.Email)
	}
	return apperr.Storage(err, "create restaurant")
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
	if pgerr.NoRows(err) {
		return nil, apperr.NotFound("restaurant %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get restaurant %d", id)
	}
	return rest, nil
}

func (r *PostgresRepository) GetRestaurantByEmail(ctx context.Context, email string) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE email = $1`, email))
	if pgerr.NoRows(err) {
		return nil, apperr.NotFound("restaurant with email %s not found", email)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get restaurant by email")
	}
	return rest, nil
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx,
		`UPDATE restaurants SET name=$1, phone=$2, address=$3, description=$4, logo=$5, updated_at=NOW()
		WHERE id=$6 RETURNING updated_at`,
		rest.Name, rest.Phone, rest.Address, rest.Description, rest.Logo, rest.ID,
	).Scan(&rest.UpdatedAt)
	if pgerr.NoRows(err) {
		return apperr.NotFound("restaurant %d not found", rest.ID)
	}
	return apperr.Storage(err, "update restaurant %d", rest.ID)
}

func (r *PostgresRepository) exec(ctx context.Context, what string, id int, query string, args ...interface{}) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Storage(err, "%s", what)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err, "%s", what)
	}
	if rows == 0 {
		return apperr.NotFound("restaurant %d not found", id)
	}
	return nil
}

func (r *PostgresRepository) UpdateRestaurantLogo(ctx context.Context, id int, logo string) error {
	return r.exec(ctx, "update restaurant logo", id,
		"UPDATE restaurants SET logo=$1, updated_at=NOW() WHERE id=$2", logo, id)
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, id int, qr []byte) error {
	return r.exec(ctx, "save qr code", id,
		"UPDATE restaurants SET qr_code=$1 WHERE id=$2", qr, id)
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, id int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM restaurants WHERE id = $1", id).Scan(&qr)
	if pgerr.NoRows(err) {
		return nil, apperr.NotFound("restaurant %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get qr code")
	}
	return qr, nil
}

func (r *PostgresRepository) GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error) {
	var (
		document  []byte
		version   int
		createdAt time.Time
		updatedAt time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT document, version, created_at, updated_at FROM menus WHERE restaurant_id = $1", restaurantID,
	).Scan(&document, &version, &createdAt, &updatedAt)
	if pgerr.NoRows(err) {
		return nil, apperr.NotFound("menu for restaurant %d not found", restaurantID)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get menu")
	}

	m := menu.New(restaurantID, createdAt)
	if err := json.Unmarshal(document, &m.Categories); err != nil {
		return nil, apperr.Storage(err, "decode menu document for restaurant %d", restaurantID)
	}
	m.Version = version
	m.UpdatedAt = updatedAt
	return m, nil
}

func (r *PostgresRepository) CreateMenu(ctx context.Context, m *menu.Menu) error {
	document, err := json.Marshal(m.Categories)
	if err != nil {
		return apperr.Storage(err, "encode menu document")
	}
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO menus (restaurant_id, document, version, created_at, updated_at)
		VALUES ($1, $2, 1, $3, $4) ON CONFLICT (restaurant_id) DO NOTHING`,
		m.RestaurantID, document, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return apperr.Storage(err, "create menu")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err, "create menu")
	}
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	m.Version = 1
	return nil
}

func (r *PostgresRepository) SaveMenu(ctx context.Context, m *menu.Menu, expectedVersion int) error {
	document, err := json.Marshal(m.Categories)
	if err != nil {
		return apperr.Storage(err, "encode menu document")
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE menus SET document=$1, version=version+1, updated_at=$2
		WHERE restaurant_id=$3 AND version=$4`,
		document, m.UpdatedAt, m.RestaurantID, expectedVersion)
	if err != nil {
		return apperr.Storage(err, "save menu")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err, "save menu")
	}
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	m.Version = expectedVersion + 1
	return nil
}
