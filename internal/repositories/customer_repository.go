package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scaffold-backend/internal/models"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, phone, email, national_id, company_name, address, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }, c *models.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.NationalID, &c.CompanyName,
		&c.Address, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO customers(name, phone, email, national_id, company_name, address)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		c.Name, c.Phone, c.Email, c.NationalID, c.CompanyName, c.Address,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate("create customer", "customer", 0, err)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)

	var customer models.Customer
	if err := scanCustomer(row, &customer); err != nil {
		return nil, translate("get customer", "customer", id, err)
	}
	return &customer, nil
}

// List returns customers, newest first. A non-empty query matches name or
// phone.
func (r *CustomerRepository) List(ctx context.Context, query string) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+`
         FROM customers
         WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR phone LIKE '%' || $1 || '%'
         ORDER BY created_at DESC`, query)
	if err != nil {
		return nil, translate("list customers", "customer", 0, err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var customer models.Customer
		if err := scanCustomer(rows, &customer); err != nil {
			return nil, translate("list customers", "customer", 0, err)
		}
		customers = append(customers, &customer)
	}
	return customers, translate("list customers", "customer", 0, rows.Err())
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE customers SET name=$1, phone=$2, email=$3, national_id=$4, company_name=$5, address=$6,
                updated_at=CURRENT_TIMESTAMP
         WHERE id=$7
         RETURNING created_at, updated_at`,
		c.Name, c.Phone, c.Email, c.NationalID, c.CompanyName, c.Address, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return translate("update customer", "customer", c.ID, err)
}

// CountContracts returns how many contracts reference the customer
func (r *CustomerRepository) CountContracts(ctx context.Context, id int) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM contracts WHERE customer_id=$1`, id).Scan(&n)
	return n, translate("count customer contracts", "customer", id, err)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return translate("delete customer", "customer", id, err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete customer", "customer", id, pgx.ErrNoRows)
	}
	return nil
}
