package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type vendorService struct {
	pool *pgxpool.Pool
}

// NewVendorService constructs a VendorService backed by PostgreSQL.
func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

// CreateVendor inserts a new vendor record.
func (s *vendorService) CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("vendor code and name are required")
	}

	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO vendors (code, name, contact_person, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, code, name, contact_person, email, phone, address, is_active, created_at`,
		input.Code, input.Name, toPtr(input.ContactPerson), toPtr(input.Email),
		toPtr(input.Phone), toPtr(input.Address),
	).Scan(
		&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone, &v.Address,
		&v.IsActive, &v.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create vendor %q: %w", input.Code, err)
	}
	return v, nil
}

// GetVendors returns all active vendors, ordered by code.
func (s *vendorService) GetVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, contact_person, email, phone, address, is_active, created_at
		FROM vendors
		WHERE is_active = true
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("get vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(
			&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone, &v.Address,
			&v.IsActive, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// GetVendorByCode returns a vendor by its unique code.
func (s *vendorService) GetVendorByCode(ctx context.Context, code string) (*Vendor, error) {
	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, contact_person, email, phone, address, is_active, created_at
		FROM vendors
		WHERE code = $1`,
		code,
	).Scan(
		&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone, &v.Address,
		&v.IsActive, &v.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("vendor %q not found: %w", code, err)
	}
	return v, nil
}
