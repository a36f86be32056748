package repository

import (
	"salon-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	DB      database.PgxIface
	User    UserRepository
	Session SessionRepository
	Tenant  TenantRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		DB:      db,
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Tenant:  NewTenantRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
