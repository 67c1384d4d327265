package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nossoguia/guia-compras/internal/domain/store"
)

const createRegistrationSQL = `INSERT INTO store_registrations (
		id, company_name, trade_name, cnpj, ie_exempt, ie, segment,
		phone, whatsapp, email, website,
		postal_code, street, number, complement, district, city, state,
		delivery, pickup, accepts_pix, accepts_debit, accepts_credit,
		instagram, facebook, terms_accepted, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18,
		$19, $20, $21, $22, $23,
		$24, $25, $26, $27
	)`

var _ store.RegistrationRepository = (*RegistrationRepository)(nil)

// RegistrationRepository implements store.RegistrationRepository backed by
// PostgreSQL.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository returns a RegistrationRepository that uses the
// given pool.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// Create persists a submitted store registration.
func (r *RegistrationRepository) Create(ctx context.Context, reg *store.Registration) error {
	_, err := r.pool.Exec(ctx, createRegistrationSQL,
		reg.ID, reg.CompanyName, reg.TradeName, reg.CNPJ, reg.IEExempt, reg.IE, reg.Segment,
		reg.Phone, reg.WhatsApp, reg.Email, reg.Website,
		reg.PostalCode, reg.Street, reg.Number, reg.Complement, reg.District, reg.City, reg.State,
		reg.Delivery, reg.Pickup, reg.AcceptsPix, reg.AcceptsDebit, reg.AcceptsCredit,
		reg.Instagram, reg.Facebook, reg.TermsAccepted, reg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating registration %q: %w", reg.ID, err)
	}
	return nil
}
