package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLRepository reads analytics rows from PostgreSQL.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewSQLRepository constructs SQLRepository.
func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) SalesByDay(ctx context.Context, start, end time.Time) ([]SalesRow, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("analytics repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT
    DATE(s.created_at) AS sale_date,
    COUNT(s.id) AS transaction_count,
    COALESCE(SUM(s.total), 0) AS total_revenue,
    COALESCE(SUM(s.subtotal), 0) AS subtotal,
    COALESCE(SUM(s.tax_amount), 0) AS tax_amount,
    COALESCE(AVG(s.total), 0) AS avg_transaction_value,
    COUNT(DISTINCT s.customer_id) AS unique_customers,
    COALESCE(u.first_name || ' ' || u.last_name, '') AS salesperson,
    s.payment_method
FROM sales s
LEFT JOIN users u ON s.user_id = u.id
WHERE s.created_at >= $1 AND s.created_at < $2
    AND s.payment_status = 'COMPLETED'
GROUP BY DATE(s.created_at), u.id, u.first_name, u.last_name, s.payment_method
ORDER BY sale_date DESC`, start, end)
	if err != nil {
		return nil, storeErr("query sales by day", err)
	}
	defer rows.Close()

	out := []SalesRow{}
	for rows.Next() {
		var row SalesRow
		if err := rows.Scan(&row.SaleDate, &row.TransactionCount, &row.TotalRevenue, &row.Subtotal,
			&row.TaxAmount, &row.AvgTransaction, &row.UniqueCustomers, &row.Salesperson, &row.PaymentMethod); err != nil {
			return nil, storeErr("scan sales row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read sales rows", err)
	}
	return out, nil
}

func (r *SQLRepository) RevenueTotal(ctx context.Context, start, end time.Time) (float64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("analytics repository not initialised")
	}
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0)
FROM sales
WHERE created_at >= $1 AND created_at < $2
    AND payment_status = 'COMPLETED'`, start, end).Scan(&total)
	if err != nil {
		return 0, storeErr("query revenue total", err)
	}
	return total, nil
}

func (r *SQLRepository) StockOverview(ctx context.Context) ([]StockRow, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("analytics repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT
    p.id,
    p.name,
    p.sku,
    p.current_stock,
    p.min_stock,
    p.max_stock,
    p.price,
    p.cost,
    COALESCE(c.name, '') AS category_name,
    COALESCE(sup.name, '') AS supplier_name,
    COALESCE(sales_qty.total_sold, 0) AS total_sold,
    COALESCE(purchase_qty.total_purchased, 0) AS total_purchased
FROM products p
LEFT JOIN categories c ON p.category_id = c.id
LEFT JOIN suppliers sup ON p.supplier_id = sup.id
LEFT JOIN (
    SELECT si.product_id, SUM(si.quantity) AS total_sold
    FROM sale_items si
    JOIN sales sa ON si.sale_id = sa.id
    WHERE sa.payment_status = 'COMPLETED'
        AND sa.created_at >= NOW() - INTERVAL '30 days'
    GROUP BY si.product_id
) sales_qty ON p.id = sales_qty.product_id
LEFT JOIN (
    SELECT pi.product_id, SUM(pi.quantity) AS total_purchased
    FROM purchase_items pi
    JOIN purchases pu ON pi.purchase_id = pu.id
    WHERE pu.status = 'DELIVERED'
        AND pu.created_at >= NOW() - INTERVAL '30 days'
    GROUP BY pi.product_id
) purchase_qty ON p.id = purchase_qty.product_id
WHERE p.status = 'ACTIVE'
ORDER BY p.id`)
	if err != nil {
		return nil, storeErr("query stock overview", err)
	}
	defer rows.Close()

	out := []StockRow{}
	for rows.Next() {
		var row StockRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.SKU, &row.CurrentStock, &row.MinStock,
			&row.MaxStock, &row.Price, &row.Cost, &row.Category, &row.Supplier,
			&row.TotalSold30d, &row.TotalPurchased30d); err != nil {
			return nil, storeErr("scan stock row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read stock rows", err)
	}
	return out, nil
}

func (r *SQLRepository) DailyRevenue(ctx context.Context, start, end time.Time) ([]RevenuePoint, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("analytics repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT
    DATE(created_at) AS date,
    COALESCE(SUM(total), 0) AS revenue,
    COALESCE(SUM(subtotal), 0) AS subtotal,
    COALESCE(SUM(tax_amount), 0) AS tax
FROM sales
WHERE created_at >= $1 AND created_at < $2
    AND payment_status = 'COMPLETED'
GROUP BY DATE(created_at)
ORDER BY date`, start, end)
	if err != nil {
		return nil, storeErr("query daily revenue", err)
	}
	defer rows.Close()

	out := []RevenuePoint{}
	for rows.Next() {
		var point RevenuePoint
		if err := rows.Scan(&point.Date, &point.Revenue, &point.Subtotal, &point.Tax); err != nil {
			return nil, storeErr("scan revenue point", err)
		}
		out = append(out, point)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read revenue points", err)
	}
	return out, nil
}

func (r *SQLRepository) DailyCosts(ctx context.Context, start, end time.Time) ([]CostPoint, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("analytics repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT
    DATE(created_at) AS date,
    COALESCE(SUM(total), 0) AS costs
FROM purchases
WHERE created_at >= $1 AND created_at < $2
    AND status IN ('DELIVERED', 'CONFIRMED')
GROUP BY DATE(created_at)
ORDER BY date`, start, end)
	if err != nil {
		return nil, storeErr("query daily costs", err)
	}
	defer rows.Close()

	out := []CostPoint{}
	for rows.Next() {
		var point CostPoint
		if err := rows.Scan(&point.Date, &point.Costs); err != nil {
			return nil, storeErr("scan cost point", err)
		}
		out = append(out, point)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read cost points", err)
	}
	return out, nil
}

// storeErr wraps a store failure with query context. PostgreSQL errors
// keep their SQLSTATE so operators can tell query bugs from connectivity.
func storeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("analytics: %s: %w", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("analytics: %s: %s (SQLSTATE %s)", op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("analytics: %s: %w", op, err)
}
