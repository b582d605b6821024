package storage

import (
	"context"
)

const createRepresentative = `-- name: CreateRepresentative :one
INSERT INTO representatives (name, commission_rate)
VALUES (?, ?)
RETURNING id, name, commission_rate, total_sold, total_commission
`

type CreateRepresentativeParams struct {
	Name           string
	CommissionRate float64
}

func (q *Queries) CreateRepresentative(ctx context.Context, arg CreateRepresentativeParams) (Representative, error) {
	row := q.db.QueryRowContext(ctx, createRepresentative, arg.Name, arg.CommissionRate)
	var i Representative
	err := row.Scan(&i.ID, &i.Name, &i.CommissionRate, &i.TotalSold, &i.TotalCommission)
	return i, err
}

const getRepresentative = `-- name: GetRepresentative :one
SELECT id, name, commission_rate, total_sold, total_commission
FROM representatives
WHERE id = ?
`

func (q *Queries) GetRepresentative(ctx context.Context, id int64) (Representative, error) {
	row := q.db.QueryRowContext(ctx, getRepresentative, id)
	var i Representative
	err := row.Scan(&i.ID, &i.Name, &i.CommissionRate, &i.TotalSold, &i.TotalCommission)
	return i, err
}

const representativeNameExists = `-- name: RepresentativeNameExists :one
SELECT EXISTS (SELECT 1 FROM representatives WHERE name = ?)
`

func (q *Queries) RepresentativeNameExists(ctx context.Context, name string) (bool, error) {
	row := q.db.QueryRowContext(ctx, representativeNameExists, name)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listRepresentatives = `-- name: ListRepresentatives :many
SELECT id, name, commission_rate, total_sold, total_commission
FROM representatives
ORDER BY name, id
`

func (q *Queries) ListRepresentatives(ctx context.Context) ([]Representative, error) {
	rows, err := q.db.QueryContext(ctx, listRepresentatives)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Representative
	for rows.Next() {
		var i Representative
		if err := rows.Scan(&i.ID, &i.Name, &i.CommissionRate, &i.TotalSold, &i.TotalCommission); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const adjustRepresentativeTotals = `-- name: AdjustRepresentativeTotals :execrows
UPDATE representatives
SET total_sold = total_sold + ?,
    total_commission = total_commission + ?
WHERE id = ?
`

type AdjustRepresentativeTotalsParams struct {
	SoldDelta       float64
	CommissionDelta float64
	ID              int64
}

func (q *Queries) AdjustRepresentativeTotals(ctx context.Context, arg AdjustRepresentativeTotalsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, adjustRepresentativeTotals, arg.SoldDelta, arg.CommissionDelta, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const sumTotalSold = `-- name: SumTotalSold :one
SELECT CAST(COALESCE(SUM(total_sold), 0) AS REAL) FROM representatives
`

func (q *Queries) SumTotalSold(ctx context.Context) (float64, error) {
	row := q.db.QueryRowContext(ctx, sumTotalSold)
	var total float64
	err := row.Scan(&total)
	return total, err
}

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (name, phone)
VALUES (?, ?)
RETURNING id, name, phone
`

type CreateCustomerParams struct {
	Name  string
	Phone string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, createCustomer, arg.Name, arg.Phone)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.Phone)
	return i, err
}

const getCustomer = `-- name: GetCustomer :one
SELECT id, name, phone FROM customers WHERE id = ?
`

func (q *Queries) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	row := q.db.QueryRowContext(ctx, getCustomer, id)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.Phone)
	return i, err
}

const customerNameExists = `-- name: CustomerNameExists :one
SELECT EXISTS (SELECT 1 FROM customers WHERE name = ?)
`

func (q *Queries) CustomerNameExists(ctx context.Context, name string) (bool, error) {
	row := q.db.QueryRowContext(ctx, customerNameExists, name)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listCustomers = `-- name: ListCustomers :many
SELECT id, name, phone FROM customers ORDER BY name, id
`

func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		var i Customer
		if err := rows.Scan(&i.ID, &i.Name, &i.Phone); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSale = `-- name: CreateSale :one
INSERT INTO sales (representative_id, customer_id, value, date, commission_rate_applied, commission_value)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, representative_id, customer_id, value, date, commission_rate_applied, commission_value
`

type CreateSaleParams struct {
	RepresentativeID      int64
	CustomerID            int64
	Value                 float64
	Date                  string
	CommissionRateApplied float64
	CommissionValue       float64
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (Sale, error) {
	row := q.db.QueryRowContext(ctx, createSale,
		arg.RepresentativeID,
		arg.CustomerID,
		arg.Value,
		arg.Date,
		arg.CommissionRateApplied,
		arg.CommissionValue,
	)
	var i Sale
	err := row.Scan(
		&i.ID,
		&i.RepresentativeID,
		&i.CustomerID,
		&i.Value,
		&i.Date,
		&i.CommissionRateApplied,
		&i.CommissionValue,
	)
	return i, err
}

const getSale = `-- name: GetSale :one
SELECT id, representative_id, customer_id, value, date, commission_rate_applied, commission_value
FROM sales
WHERE id = ?
`

func (q *Queries) GetSale(ctx context.Context, id int64) (Sale, error) {
	row := q.db.QueryRowContext(ctx, getSale, id)
	var i Sale
	err := row.Scan(
		&i.ID,
		&i.RepresentativeID,
		&i.CustomerID,
		&i.Value,
		&i.Date,
		&i.CommissionRateApplied,
		&i.CommissionValue,
	)
	return i, err
}

const saleRowColumns = `s.id, s.representative_id, s.customer_id, s.value, s.date,
       s.commission_rate_applied, s.commission_value,
       r.name AS representative_name, c.name AS customer_name
FROM sales s
JOIN representatives r ON r.id = s.representative_id
JOIN customers c ON c.id = s.customer_id
`

const getSaleRow = `-- name: GetSaleRow :one
SELECT ` + saleRowColumns + `WHERE s.id = ?
`

func (q *Queries) GetSaleRow(ctx context.Context, id int64) (SaleRow, error) {
	row := q.db.QueryRowContext(ctx, getSaleRow, id)
	var i SaleRow
	err := scanSaleRow(row, &i)
	return i, err
}

const listSaleRows = `-- name: ListSaleRows :many
SELECT ` + saleRowColumns + `ORDER BY s.date DESC, s.id DESC
`

func (q *Queries) ListSaleRows(ctx context.Context) ([]SaleRow, error) {
	return q.querySaleRows(ctx, listSaleRows)
}

// Empty bounds are open.
const listSaleRowsBetween = `-- name: ListSaleRowsBetween :many
SELECT ` + saleRowColumns + `WHERE (? = '' OR s.date >= ?)
  AND (? = '' OR s.date < ?)
ORDER BY s.date DESC, s.id DESC
`

type ListSaleRowsBetweenParams struct {
	Start string
	End   string
}

func (q *Queries) ListSaleRowsBetween(ctx context.Context, arg ListSaleRowsBetweenParams) ([]SaleRow, error) {
	return q.querySaleRows(ctx, listSaleRowsBetween, arg.Start, arg.Start, arg.End, arg.End)
}

const updateSale = `-- name: UpdateSale :one
UPDATE sales
SET value = ?,
    commission_rate_applied = ?,
    commission_value = ?
WHERE id = ?
RETURNING id, representative_id, customer_id, value, date, commission_rate_applied, commission_value
`

type UpdateSaleParams struct {
	Value                 float64
	CommissionRateApplied float64
	CommissionValue       float64
	ID                    int64
}

func (q *Queries) UpdateSale(ctx context.Context, arg UpdateSaleParams) (Sale, error) {
	row := q.db.QueryRowContext(ctx, updateSale,
		arg.Value,
		arg.CommissionRateApplied,
		arg.CommissionValue,
		arg.ID,
	)
	var i Sale
	err := row.Scan(
		&i.ID,
		&i.RepresentativeID,
		&i.CustomerID,
		&i.Value,
		&i.Date,
		&i.CommissionRateApplied,
		&i.CommissionValue,
	)
	return i, err
}

const deleteSale = `-- name: DeleteSale :execrows
DELETE FROM sales WHERE id = ?
`

func (q *Queries) DeleteSale(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSale, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSaleRow(row rowScanner, i *SaleRow) error {
	return row.Scan(
		&i.ID,
		&i.RepresentativeID,
		&i.CustomerID,
		&i.Value,
		&i.Date,
		&i.CommissionRateApplied,
		&i.CommissionValue,
		&i.RepresentativeName,
		&i.CustomerName,
	)
}

func (q *Queries) querySaleRows(ctx context.Context, query string, args ...interface{}) ([]SaleRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleRow
	for rows.Next() {
		var i SaleRow
		if err := scanSaleRow(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
