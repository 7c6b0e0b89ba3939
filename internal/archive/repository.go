// Package archive keeps a local record of confirmed appointments. The
// platform remains the source of truth; the archive exists for tenant-side
// reporting and support lookups, and writing to it never blocks a booking.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/snapsbooking/bookngon-api/internal/booking"
	"github.com/snapsbooking/bookngon-api/internal/snaps"
)

// Record is one archived appointment row.
type Record struct {
	ID            int64           `json:"id"`
	BusinessID    int64           `json:"business_id"`
	AppointmentID int64           `json:"appointment_id"`
	SessionID     string          `json:"session_id"`
	ClientName    string          `json:"client_name,omitempty"`
	Date          string          `json:"appointment_date"`
	StartAt       string          `json:"start_at"`
	EndAt         string          `json:"end_at"`
	ServiceCount  int             `json:"service_count"`
	TotalMinutes  int             `json:"total_minutes"`
	TotalPrice    string          `json:"total_price"`
	Services      json.RawMessage `json:"services"`
	CreatedAt     time.Time       `json:"created_at"`
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository stores archived appointments in Postgres.
type Repository struct {
	pool querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("archive: pgx pool required")
	}
	return &Repository{pool: pool}
}

func newRepositoryWithExec(exec querier) *Repository {
	if exec == nil {
		panic("archive: exec required")
	}
	return &Repository{pool: exec}
}

// RecordConfirmed inserts a row for a just-confirmed appointment. The
// composed service lines are stored as a JSON snapshot.
func (r *Repository) RecordConfirmed(ctx context.Context, appt *snaps.Appointment, sess *booking.Session) error {
	services, err := json.Marshal(sess.Selection.Services)
	if err != nil {
		return fmt.Errorf("archive: marshal services: %w", err)
	}

	clientName := sess.Selection.Client.FullName()
	query := `
		INSERT INTO booked_appointments
			(business_id, appointment_id, session_id, client_name,
			 appointment_date, start_at, end_at,
			 service_count, total_minutes, total_price, services)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := r.pool.Exec(ctx, query,
		sess.BusinessID,
		appt.ID,
		sess.ID,
		clientName,
		appt.AppointmentDate,
		appt.StartAt,
		appt.EndAt,
		len(sess.Selection.Services),
		sess.Selection.TotalDuration(),
		booking.FormatCents(sess.Selection.TotalPriceCents()),
		services,
	); err != nil {
		return fmt.Errorf("archive: insert appointment: %w", err)
	}
	return nil
}

// ListRecent returns the newest archived appointments for a business.
func (r *Repository) ListRecent(ctx context.Context, businessID int64, limit int32) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, business_id, appointment_id, session_id, client_name,
		       appointment_date, start_at, end_at,
		       service_count, total_minutes, total_price, services, created_at
		FROM booked_appointments
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: list appointments: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.BusinessID,
			&rec.AppointmentID,
			&rec.SessionID,
			&rec.ClientName,
			&rec.Date,
			&rec.StartAt,
			&rec.EndAt,
			&rec.ServiceCount,
			&rec.TotalMinutes,
			&rec.TotalPrice,
			&rec.Services,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("archive: scan appointment: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate appointments: %w", err)
	}
	return records, nil
}
