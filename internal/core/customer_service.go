package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

const customerColumns = `id, code, name, email, phone, address, group_tag, status,
       credit_limit, current_balance, created_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.GroupTag, &c.Status, &c.CreditLimit, &c.CurrentBalance, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("customer code and name are required")
	}

	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (code, name, email, phone, address, group_tag, credit_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+customerColumns,
		input.Code, input.Name, toPtr(input.Email), toPtr(input.Phone),
		toPtr(input.Address), toPtr(input.GroupTag), input.CreditLimit,
	))
	if err != nil {
		return nil, fmt.Errorf("create customer %q: %w", input.Code, err)
	}
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("get customer %d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) GetCustomerByCode(ctx context.Context, code string) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE code = $1", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %q: %w", code, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("get customer %q: %w", code, err)
	}
	return c, nil
}

func (s *customerService) GetCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *customerService) GetBalance(ctx context.Context, customerID int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.pool.QueryRow(ctx,
		"SELECT current_balance FROM customers WHERE id = $1", customerID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("customer %d: %w", customerID, ErrCustomerNotFound)
		}
		return decimal.Zero, fmt.Errorf("get balance for customer %d: %w", customerID, err)
	}
	return balance, nil
}

// RecordPayment inserts the payment row and decrements current_balance
// atomically. The customer row is locked first so concurrent payments and
// order fulfilments serialize on the balance.
func (s *customerService) RecordPayment(ctx context.Context, customerID int, amount decimal.Decimal, paymentDate, method string) (*Payment, error) {
	if amount.IsZero() || amount.IsNegative() {
		return nil, fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	if paymentDate == "" {
		paymentDate = time.Now().Format("2006-01-02")
	}
	if method == "" {
		method = "cash"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		"SELECT id FROM customers WHERE id = $1 FOR UPDATE", customerID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("lock customer %d: %w", customerID, err)
	}

	p := &Payment{}
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (customer_id, amount, payment_date, method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, customer_id, amount, payment_date::text, method, created_at`,
		customerID, amount, paymentDate, method,
	).Scan(&p.ID, &p.CustomerID, &p.Amount, &p.PaymentDate, &p.Method, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert payment for customer %d: %w", customerID, err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE customers SET current_balance = current_balance - $1 WHERE id = $2",
		amount, customerID,
	); err != nil {
		return nil, fmt.Errorf("decrement balance for customer %d: %w", customerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return p, nil
}

func (s *customerService) GetPayments(ctx context.Context, customerID int) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, customer_id, amount, payment_date::text, method, created_at
		FROM payments
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query payments for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &p.PaymentDate, &p.Method, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
