package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"salon-booking/internal/data/entity"
	"salon-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) (*entity.Tenant, error)
}

type tenantRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTenantRepository(db database.PgxIface, log *zap.Logger) TenantRepository {
	return &tenantRepository{
		db:  db,
		log: log.With(zap.String("repository", "tenant")),
	}
}

const tenantColumns = `
	id, owner_user_id, name, contact_handle, deposit_enabled, deposit_amount::text,
	working_hours, services, is_active, billing_status, paid_until, created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	hours, err := json.Marshal(tenant.WorkingHours)
	if err != nil {
		return fmt.Errorf("encode working hours: %w", err)
	}
	services, err := json.Marshal(tenant.Services)
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}

	query := `
		INSERT INTO tenants (id, owner_user_id, name, contact_handle, deposit_enabled,
		                     deposit_amount, working_hours, services, is_active,
		                     billing_status, paid_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Exec(ctx, query,
		tenant.ID,
		tenant.OwnerUserID,
		tenant.Name,
		tenant.ContactHandle,
		tenant.Deposit.Enabled,
		tenant.Deposit.Amount.String(),
		hours,
		services,
		tenant.IsActive,
		tenant.BillingStatus,
		tenant.PaidUntil,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create tenant",
			zap.Error(err),
			zap.String("tenant_id", tenant.ID.String()),
		)
		return fmt.Errorf("create tenant %s: %w", tenant.ID, err)
	}

	return nil
}

func (r *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants WHERE id = $1`

	tenant, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find tenant by ID",
			zap.Error(err),
			zap.String("tenant_id", id.String()),
		)
		return nil, fmt.Errorf("find tenant by ID %s: %w", id, err)
	}

	return tenant, nil
}

func (r *tenantRepository) FindByOwner(ctx context.Context, userID uuid.UUID) (*entity.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants WHERE owner_user_id = $1`

	tenant, err := scanTenant(r.db.QueryRow(ctx, query, userID))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find tenant by owner",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find tenant by owner %s: %w", userID, err)
	}

	return tenant, nil
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var (
		tenant   entity.Tenant
		amount   string
		hours    []byte
		services []byte
	)

	err := row.Scan(
		&tenant.ID,
		&tenant.OwnerUserID,
		&tenant.Name,
		&tenant.ContactHandle,
		&tenant.Deposit.Enabled,
		&amount,
		&hours,
		&services,
		&tenant.IsActive,
		&tenant.BillingStatus,
		&tenant.PaidUntil,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tenant.Deposit.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("decode deposit amount %q: %w", amount, err)
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &tenant.WorkingHours); err != nil {
			return nil, fmt.Errorf("decode working hours: %w", err)
		}
	}
	if len(services) > 0 {
		if err := json.Unmarshal(services, &tenant.Services); err != nil {
			return nil, fmt.Errorf("decode services: %w", err)
		}
	}

	return &tenant, nil
}
