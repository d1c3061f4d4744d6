package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/rs/xid"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/geo"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/repository"
)

// serviceRadiusKm is the fixed proximity bound of the directory query.
// Services at exactly 10 km are excluded: the comparison is strict.
const serviceRadiusKm = 10.0

// ServiceStore implements repository.ServiceRepository over the shared pool.
type ServiceStore struct {
	conn *sql.DB
}

var _ repository.ServiceRepository = (*ServiceStore)(nil)

const serviceColumns = `id, name, category, latitude, longitude, address, city, state,
	 zipcode, contact_number, operation_hour, availability, created_at, updated_at`

// Create inserts a new service. The ID and timestamps are assigned here;
// the caller's struct is updated in place.
func (s *ServiceStore) Create(ctx context.Context, svc *model.Service) error {
	svc.ID = xid.New().String()
	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO service (id, name, category, latitude, longitude, address, city, state,
		 zipcode, contact_number, operation_hour, availability, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		svc.ID,
		svc.Name,
		svc.Category,
		svc.Latitude,
		svc.Longitude,
		svc.Address,
		svc.City,
		svc.State,
		svc.Zipcode,
		svc.ContactNumber,
		svc.OperationHour,
		svc.Availability,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating service: %w", err)
	}

	return nil
}

// GetByID retrieves a single service, apperror.ErrNotFound if absent.
func (s *ServiceStore) GetByID(ctx context.Context, id string) (*model.Service, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM service WHERE id = ?`, id)

	svc, err := scanService(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("service", id)
		}
		return nil, fmt.Errorf("sqlite: getting service %s: %w", id, err)
	}

	return svc, nil
}

// FindByFilters runs the bounded-distance filtered scan.
//
// Exact-match predicates (category, availability) are compiled into the SQL
// WHERE clause with goqu. The Haversine bound is applied in Go on the rows
// that survive the SQL predicates — SQLite's trig functions are a
// build-time option, and keeping the formula in the geo package means one
// implementation serves both the query and its tests. Supplying neither
// coordinate disables the distance bound entirely; an empty filter returns
// the whole directory.
func (s *ServiceStore) FindByFilters(ctx context.Context, filter model.ServiceFilter) ([]model.Service, error) {
	ds := dialect.From("service").Select(
		"id", "name", "category", "latitude", "longitude", "address", "city", "state",
		"zipcode", "contact_number", "operation_hour", "availability", "created_at", "updated_at",
	)
	if filter.Category != nil {
		ds = ds.Where(goqu.C("category").Eq(*filter.Category))
	}
	if filter.Availability != nil {
		ds = ds.Where(goqu.C("availability").Eq(*filter.Availability))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building service query: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying services: %w", err)
	}
	defer rows.Close()

	withinRadius := filter.Latitude != nil && filter.Longitude != nil

	services := make([]model.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning service row: %w", err)
		}
		if withinRadius {
			d := geo.DistanceKm(*filter.Latitude, *filter.Longitude, svc.Latitude, svc.Longitude)
			if d >= serviceRadiusKm {
				continue
			}
		}
		services = append(services, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating services: %w", err)
	}

	return services, nil
}

// Update persists a full service record. The caller (the directory
// service) has already merged the patch into the loaded record.
func (s *ServiceStore) Update(ctx context.Context, svc *model.Service) error {
	svc.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE service
		 SET name = ?, category = ?, latitude = ?, longitude = ?, address = ?, city = ?,
		     state = ?, zipcode = ?, contact_number = ?, operation_hour = ?,
		     availability = ?, updated_at = ?
		 WHERE id = ?`,
		svc.Name,
		svc.Category,
		svc.Latitude,
		svc.Longitude,
		svc.Address,
		svc.City,
		svc.State,
		svc.Zipcode,
		svc.ContactNumber,
		svc.OperationHour,
		svc.Availability,
		svc.UpdatedAt,
		svc.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating service %s: %w", svc.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("service", svc.ID)
	}

	return nil
}

// Delete removes a service by ID, apperror.ErrNotFound if it never existed.
func (s *ServiceStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM service WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting service %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("service", id)
	}

	return nil
}

// scanService reads one service row. It accepts the Scan func of either a
// *sql.Row or *sql.Rows so the single-row and multi-row paths share it.
func scanService(scan func(dest ...any) error) (*model.Service, error) {
	var svc model.Service
	err := scan(
		&svc.ID,
		&svc.Name,
		&svc.Category,
		&svc.Latitude,
		&svc.Longitude,
		&svc.Address,
		&svc.City,
		&svc.State,
		&svc.Zipcode,
		&svc.ContactNumber,
		&svc.OperationHour,
		&svc.Availability,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
