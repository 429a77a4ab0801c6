package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/pkg/db/transactor"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

// CustomerRepository is the single owner of customers state.
// Lookup methods return nil customer without error when entry is missing.
type CustomerRepository interface {
	FindAll(ctx context.Context, spec model.PageSpec) (*model.CustomerPage, error)
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	// Save inserts customer without id and updates existing one otherwise.
	// Update of missing customer returns nil customer without error.
	Save(ctx context.Context, c *model.Customer) (*model.Customer, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	// ExistsByEmail ignores customer with excludeID, empty excludeID means no exclusion
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	// ExistsByOrganizationID ignores customer with excludeID, empty excludeID means no exclusion
	ExistsByOrganizationID(ctx context.Context, organizationID string, excludeID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	// CountByRegisteredAtBetween counts customers registered within [from, to], both ends inclusive
	CountByRegisteredAtBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByPersonType(ctx context.Context, pt model.PersonType) (int64, error)
	// TopCityByCount returns non-empty city with most customers, ties resolved by city name ascending.
	// Empty string is returned when no customer has a city.
	TopCityByCount(ctx context.Context) (string, error)
	CountByCity(ctx context.Context, city string) (int64, error)
	// Search matches term as case-insensitive substring of name or email
	Search(ctx context.Context, term string) ([]*model.Customer, error)
	// RecentFirst returns up to n most recently registered customers
	RecentFirst(ctx context.Context, n int) ([]*model.Customer, error)
}

const customerColumns = `id, name, person_type, individual_id, organization_id, birth_date, postal_code, street, number,
	city, district, complement, state, landline, mobile, email, registered_at, updated_at`

type postgresCustomerRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

func NewPostgresCustomerRepository(trx transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &postgresCustomerRepository{trx: trx}
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context, spec model.PageSpec) (*model.CustomerPage, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	q := "SELECT " + customerColumns + " FROM customers ORDER BY registered_at DESC, id LIMIT $1 OFFSET $2"
	customers, err := r.query(ctx, q, spec.Size, spec.Offset())
	if err != nil {
		return nil, err
	}
	return model.NewCustomerPage(customers, spec, total), nil
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers WHERE id = $1"

	c, err := r.scanCustomer(r.trx.Executor(ctx).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if c.ID == "" {
		return r.create(ctx, c)
	}
	return r.update(ctx, c)
}

func (r *postgresCustomerRepository) create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	saved := *c
	saved.ID = uuid.NewString()

	q := `INSERT INTO customers(` + customerColumns + `)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.trx.Executor(ctx).Exec(ctx, q,
		saved.ID, saved.Name, personTypeText(saved.PersonType), saved.IndividualID, saved.OrganizationID,
		saved.BirthDate, saved.PostalCode, saved.Street, saved.Number, saved.City, saved.District,
		saved.Complement, saved.State, saved.Landline, saved.Mobile, saved.Email, saved.RegisteredAt, saved.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *postgresCustomerRepository) update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	saved := *c

	q := `UPDATE customers SET name = $2, person_type = $3, individual_id = $4, organization_id = $5,
			birth_date = $6, postal_code = $7, street = $8, number = $9, city = $10, district = $11,
			complement = $12, state = $13, landline = $14, mobile = $15, email = $16, updated_at = $17
		  WHERE id = $1`

	tag, err := r.trx.Executor(ctx).Exec(ctx, q,
		saved.ID, saved.Name, personTypeText(saved.PersonType), saved.IndividualID, saved.OrganizationID,
		saved.BirthDate, saved.PostalCode, saved.Street, saved.Number, saved.City, saved.District,
		saved.Complement, saved.State, saved.Landline, saved.Mobile, saved.Email, saved.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return &saved, nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM customers WHERE id = $1"
	if _, err := r.trx.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)", id)
}

func (r *postgresCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	if excludeID == "" {
		return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)", email)
	}
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1 AND id <> $2)", email, excludeID)
}

func (r *postgresCustomerRepository) ExistsByOrganizationID(ctx context.Context, organizationID string, excludeID string) (bool, error) {
	if excludeID == "" {
		return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM customers WHERE organization_id = $1)", organizationID)
	}
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM customers WHERE organization_id = $1 AND id <> $2)", organizationID, excludeID)
}

func (r *postgresCustomerRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM customers")
}

func (r *postgresCustomerRepository) CountByRegisteredAtBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM customers WHERE registered_at BETWEEN $1 AND $2", from, to)
}

func (r *postgresCustomerRepository) CountByPersonType(ctx context.Context, pt model.PersonType) (int64, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM customers WHERE person_type = $1", string(pt))
}

func (r *postgresCustomerRepository) TopCityByCount(ctx context.Context) (string, error) {
	q := `SELECT city FROM customers WHERE city <> ''
		  GROUP BY city ORDER BY COUNT(*) DESC, city ASC LIMIT 1`

	var city string
	if err := r.trx.Executor(ctx).QueryRow(ctx, q).Scan(&city); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return city, nil
}

func (r *postgresCustomerRepository) CountByCity(ctx context.Context, city string) (int64, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM customers WHERE city = $1", city)
}

func (r *postgresCustomerRepository) Search(ctx context.Context, term string) ([]*model.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers
		  WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		  ORDER BY name, id`
	return r.query(ctx, q, escapeLike(term))
}

func (r *postgresCustomerRepository) RecentFirst(ctx context.Context, n int) ([]*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers ORDER BY registered_at DESC, id LIMIT $1"
	return r.query(ctx, q, n)
}

func (r *postgresCustomerRepository) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var exists bool
	if err := r.trx.Executor(ctx).QueryRow(ctx, q, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresCustomerRepository) count(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	if err := r.trx.Executor(ctx).QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresCustomerRepository) query(ctx context.Context, q string, args ...any) ([]*model.Customer, error) {
	rows, err := r.trx.Executor(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	var personType pgtype.Text
	var birthDate pgtype.Date

	err := row.Scan(&c.ID, &c.Name, &personType, &c.IndividualID, &c.OrganizationID, &birthDate, &c.PostalCode,
		&c.Street, &c.Number, &c.City, &c.District, &c.Complement, &c.State, &c.Landline, &c.Mobile, &c.Email,
		&c.RegisteredAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if personType.Status == pgtype.Present {
		c.PersonType = model.PersonType(personType.String)
	}

	if birthDate.Status == pgtype.Present {
		t := birthDate.Time
		c.BirthDate = &t
	}
	return &c, nil
}

func personTypeText(pt model.PersonType) pgtype.Text {
	if pt == "" {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: string(pt), Status: pgtype.Present}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
