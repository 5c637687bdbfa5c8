package storage

import (
	"context"
	"database/sql"
	"fmt"

	"qrmenu/internal/apperr"
	"qrmenu/internal/pgerr"
	"qrmenu/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const orderColumns = `id, order_number, restaurant_id, table_number, customer_name, customer_phone, customer_email,
		order_type, subtotal, tax, discount, total, status, payment_status, payment_method, estimated_time,
		special_instructions, ordered_at, confirmed_at, preparing_at, ready_at, served_at, cancelled_at, updated_at`

// sortColumns maps the public sort keys onto columns; only these reach SQL.
var sortColumns = map[string]string{
	"orderedAt":   "ordered_at",
	"total":       "total",
	"status":      "status",
	"orderNumber": "order_number",
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.RestaurantID, &o.TableNumber,
		&o.CustomerInfo.Name, &o.CustomerInfo.Phone, &o.CustomerInfo.Email,
		&o.OrderType, &o.Subtotal, &o.Tax, &o.Discount, &o.Total, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &o.EstimatedTime, &o.SpecialInstructions, &o.OrderedAt,
		&o.ConfirmedAt, &o.PreparingAt, &o.ReadyAt, &o.ServedAt, &o.CancelledAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []domain.OrderItem{}
	return &o, nil
}

// CreateOrder writes the order and its items in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err, "begin order transaction")
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (order_number, restaurant_id, table_number, customer_name, customer_phone, customer_email,
			order_type, subtotal, tax, discount, total, status, payment_status, payment_method, estimated_time,
			special_instructions, ordered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		o.OrderNumber, o.RestaurantID, o.TableNumber, o.CustomerInfo.Name, o.CustomerInfo.Phone, o.CustomerInfo.Email,
		o.OrderType, o.Subtotal, o.Tax, o.Discount, o.Total, o.Status, o.PaymentStatus, o.PaymentMethod,
		o.EstimatedTime, o.SpecialInstructions, o.OrderedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if pgerr.UniqueViolation(err) {
		return domain.ErrOrderNumberTaken
	}
	if err != nil {
		return apperr.Storage(err, "insert order")
	}

	for i := range o.Items {
		it := &o.Items[i]
		err := tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, position, menu_item_id, name, price, discounted_price, image, quantity, item_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			o.ID, i, it.MenuItemID, it.Name, it.Price, it.DiscountedPrice, it.Image, it.Quantity, it.ItemTotal,
		).Scan(&it.ID)
		if err != nil {
			return apperr.Storage(err, "insert order item %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage(err, "commit order")
	}
	return nil
}

func (r *PostgresRepository) getOrder(ctx context.Context, what, where string, arg interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where+` = $1`, arg))
	if pgerr.NoRows(err) {
		return nil, apperr.NotFound("order %s not found", what)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get order %s", what)
	}
	if err := r.loadItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return r.getOrder(ctx, fmt.Sprint(id), "id", id)
}

func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.getOrder(ctx, orderNumber, "order_number", orderNumber)
}

// loadItems fills the items of every order with a single query.
func (r *PostgresRepository) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int]*domain.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, int64(o.ID))
		byID[o.ID] = o
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, order_id, menu_item_id, name, price, discounted_price, image, quantity, item_total
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return apperr.Storage(err, "load order items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it         domain.OrderItem
			orderID    int
			discounted sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &orderID, &it.MenuItemID, &it.Name, &it.Price, &discounted,
			&it.Image, &it.Quantity, &it.ItemTotal); err != nil {
			return apperr.Storage(err, "scan order item")
		}
		if discounted.Valid {
			v := discounted.Float64
			it.DiscountedPrice = &v
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return apperr.Storage(rows.Err(), "load order items")
}

// UpdateOrder saves the mutable fields only if the order still has prevStatus.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, o *domain.Order, prevStatus domain.Status) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status=$1, payment_status=$2, payment_method=$3, estimated_time=$4,
			confirmed_at=$5, preparing_at=$6, ready_at=$7, served_at=$8, cancelled_at=$9, updated_at=$10
		WHERE id=$11 AND status=$12`,
		o.Status, o.PaymentStatus, o.PaymentMethod, o.EstimatedTime,
		o.ConfirmedAt, o.PreparingAt, o.ReadyAt, o.ServedAt, o.CancelledAt, o.UpdatedAt,
		o.ID, prevStatus)
	if err != nil {
		return apperr.Storage(err, "update order %d", o.ID)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err, "update order %d", o.ID)
	}
	if rows == 0 {
		return domain.ErrStatusChanged
	}
	return nil
}

func listFilter(restaurantID int, status domain.Status) (string, []interface{}) {
	where := "restaurant_id = $1"
	args := []interface{}{restaurantID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}
	return where, args
}

func (r *PostgresRepository) ListOrders(ctx context.Context, restaurantID int, q domain.ListQuery) ([]domain.Order, int, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, 0, apperr.Validation("cannot sort by %q", q.SortBy)
	}
	direction := "DESC"
	if q.SortOrder == "asc" {
		direction = "ASC"
	}
	where, args := listFilter(restaurantID, q.Status)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err, "count orders")
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY %s %s, id %s LIMIT %d OFFSET %d`,
		orderColumns, where, column, direction, direction, q.Limit, q.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Storage(err, "list orders")
	}
	defer rows.Close()

	var list []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, apperr.Storage(err, "scan order")
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage(err, "list orders")
	}
	rows.Close()

	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	orders := make([]domain.Order, 0, len(list))
	for _, o := range list {
		orders = append(orders, *o)
	}
	return orders, total, nil
}

// OrderStats counts orders and sums their totals per status.
func (r *PostgresRepository) OrderStats(ctx context.Context, restaurantID int, status domain.Status) (map[domain.Status]domain.StatusStat, error) {
	where, args := listFilter(restaurantID, status)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(total), 0) FROM orders WHERE `+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, apperr.Storage(err, "order stats")
	}
	defer rows.Close()

	stats := make(map[domain.Status]domain.StatusStat)
	for rows.Next() {
		var (
			st   domain.Status
			stat domain.StatusStat
		)
		if err := rows.Scan(&st, &stat.Count, &stat.TotalAmount); err != nil {
			return nil, apperr.Storage(err, "scan order stats")
		}
		stats[st] = stat
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "order stats")
	}
	return stats, nil
}
