package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scaffold-backend/internal/models"
)

type EquipmentRepository struct {
	DB *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{DB: db}
}

const equipmentColumns = `id, code, description, daily_rate, monthly_rate, stock_qty, created_at, updated_at`

func scanEquipment(row interface{ Scan(...any) error }, e *models.Equipment) error {
	return row.Scan(&e.ID, &e.Code, &e.Description, &e.DailyRate, &e.MonthlyRate, &e.StockQty,
		&e.CreatedAt, &e.UpdatedAt)
}

func (r *EquipmentRepository) Create(ctx context.Context, e *models.Equipment) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO equipment(code, description, daily_rate, monthly_rate, stock_qty)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		e.Code, e.Description, e.DailyRate, e.MonthlyRate, e.StockQty,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return translate("create equipment", "equipment", 0, err)
}

func (r *EquipmentRepository) Get(ctx context.Context, id int) (*models.Equipment, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id=$1`, id)

	var e models.Equipment
	if err := scanEquipment(row, &e); err != nil {
		return nil, translate("get equipment", "equipment", id, err)
	}
	return &e, nil
}

// List returns the catalog ordered by code
func (r *EquipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY code`)
	if err != nil {
		return nil, translate("list equipment", "equipment", 0, err)
	}
	defer rows.Close()

	var list []*models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := scanEquipment(rows, &e); err != nil {
			return nil, translate("list equipment", "equipment", 0, err)
		}
		list = append(list, &e)
	}
	return list, translate("list equipment", "equipment", 0, rows.Err())
}

func (r *EquipmentRepository) Update(ctx context.Context, e *models.Equipment) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE equipment SET code=$1, description=$2, daily_rate=$3, monthly_rate=$4, stock_qty=$5,
                updated_at=CURRENT_TIMESTAMP
         WHERE id=$6
         RETURNING created_at, updated_at`,
		e.Code, e.Description, e.DailyRate, e.MonthlyRate, e.StockQty, e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return translate("update equipment", "equipment", e.ID, err)
}

// Delete removes a catalog record. Line items keep their snapshot; the
// foreign key is set to NULL.
func (r *EquipmentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM equipment WHERE id=$1`, id)
	if err != nil {
		return translate("delete equipment", "equipment", id, err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete equipment", "equipment", id, pgx.ErrNoRows)
	}
	return nil
}
