package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"scaffold-backend/internal/rental"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", "contract", 1, nil))

	err := translate("get contract", "contract", 5, pgx.ErrNoRows)
	assert.ErrorIs(t, err, rental.ErrNotFound)
	assert.EqualError(t, err, "contract 5 not found")

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "equipment_code_key", ColumnName: "code"}
	err = translate("create equipment", "equipment", 0, dup)
	assert.ErrorIs(t, err, rental.ErrConflict)
	assert.True(t, rental.IsInvariant(err))

	missing := &pgconn.PgError{Code: "23503", ConstraintName: "contracts_customer_id_fkey",
		Detail: `Key (customer_id)=(9) is not present in table "customers".`}
	err = translate("create contract", "contract", 0, missing)
	assert.True(t, rental.IsValidation(err))

	inUse := &pgconn.PgError{Code: "23503", ConstraintName: "contracts_customer_id_fkey",
		Detail: `Key (id)=(3) is still referenced from table "contracts".`}
	err = translate("delete customer", "customer", 3, inUse)
	assert.ErrorIs(t, err, rental.ErrConflict)

	check := &pgconn.PgError{Code: "23514", ConstraintName: "payments_amount_check"}
	err = translate("mutate contract", "contract", 7, check)
	assert.True(t, rental.IsValidation(err))
	assert.NotErrorIs(t, err, rental.ErrExternal)

	err = translate("list contracts", "contract", 0, errors.New("connection reset"))
	assert.ErrorIs(t, err, rental.ErrExternal)
	assert.Contains(t, err.Error(), "list contracts")

	engine := rental.Conflict("payments", "boom")
	assert.Same(t, engine, translate("mutate contract", "contract", 1, engine))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", *nullable("x"))
	assert.Equal(t, "", deref(nil))
}
