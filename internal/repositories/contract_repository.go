package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"scaffold-backend/internal/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ContractRepository persists contracts together with their line items and
// payments. Derived amounts are never stored.
type ContractRepository struct {
	DB *pgxpool.Pool
}

func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{DB: db}
}

const contractColumns = `c.id, c.contract_number, c.contract_date, c.customer_id, COALESCE(cu.name, ''),
        c.delivery_address, c.transport_cost, c.total_discount, c.status, c.signed_at,
        c.customer_signature, c.company_signature, c.delivered_at, c.notes,
        COALESCE(c.created_by_user_id, 0), c.created_at, c.updated_at`

const contractFrom = ` FROM contracts c LEFT JOIN customers cu ON cu.id = c.customer_id`

func scanContract(row interface{ Scan(...any) error }, c *models.Contract) error {
	return row.Scan(&c.ID, &c.ContractNumber, &c.ContractDate, &c.CustomerID, &c.CustomerName,
		&c.DeliveryAddress, &c.TransportCost, &c.TotalDiscount, &c.Status, &c.SignedAt,
		&c.CustomerSignature, &c.CompanySignature, &c.DeliveredAt, &c.Notes,
		&c.CreatedByUserID, &c.CreatedAt, &c.UpdatedAt)
}

func nextNumber(ctx context.Context, q querier, sequence, prefix string) (string, error) {
	var n int
	if err := q.QueryRow(ctx, "SELECT nextval('"+sequence+"')").Scan(&n); err != nil {
		return "", fmt.Errorf("failed to get next %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

// Create inserts c with its line items and payments in one transaction.
// A blank contract number is taken from contract_number_seq.
func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return translate("create contract", "contract", 0, err)
	}
	defer tx.Rollback(ctx)

	if c.ContractNumber == "" {
		number, err := nextNumber(ctx, tx, "contract_number_seq", "CNT")
		if err != nil {
			return translate("create contract", "contract", 0, err)
		}
		c.ContractNumber = number
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO contracts(contract_number, contract_date, customer_id, delivery_address, transport_cost,
                               total_discount, status, notes, created_by_user_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, 0))
         RETURNING id, created_at, updated_at`,
		c.ContractNumber, c.ContractDate, c.CustomerID, c.DeliveryAddress, c.TransportCost,
		c.TotalDiscount, c.Status, c.Notes, c.CreatedByUserID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return translate("create contract", "contract", 0, err)
	}

	if err := insertLineItems(ctx, tx, c.ID, c.LineItems); err != nil {
		return translate("create contract", "contract", c.ID, err)
	}
	for i := range c.Payments {
		if err := insertPayment(ctx, tx, c.ID, &c.Payments[i]); err != nil {
			return translate("create contract", "contract", c.ID, err)
		}
	}

	return translate("create contract", "contract", c.ID, tx.Commit(ctx))
}

// Get loads a contract with its line items, payments and attachments
func (r *ContractRepository) Get(ctx context.Context, id int) (*models.Contract, error) {
	c, err := loadContract(ctx, r.DB, id, false)
	if err != nil {
		return nil, translate("get contract", "contract", id, err)
	}
	return c, nil
}

// List loads every contract matching the stored-field parts of filter
// (status, customer, search). Derived filters are applied by the caller.
func (r *ContractRepository) List(ctx context.Context, filter models.ContractFilter) ([]models.Contract, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("c.status = $%d", len(args)))
	}
	if filter.CustomerID > 0 {
		args = append(args, filter.CustomerID)
		where = append(where, fmt.Sprintf("c.customer_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(c.contract_number ILIKE $%d OR cu.name ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + contractColumns + contractFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY c.contract_date DESC, c.id DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list contracts", "contract", 0, err)
	}
	defer rows.Close()

	var (
		contracts []models.Contract
		ids       []int
	)
	index := map[int]int{}
	for rows.Next() {
		var c models.Contract
		if err := scanContract(rows, &c); err != nil {
			return nil, translate("list contracts", "contract", 0, err)
		}
		index[c.ID] = len(contracts)
		ids = append(ids, c.ID)
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list contracts", "contract", 0, err)
	}
	if len(ids) == 0 {
		return contracts, nil
	}

	items, err := loadLineItems(ctx, r.DB, ids)
	if err != nil {
		return nil, translate("list contracts", "contract", 0, err)
	}
	for _, item := range items {
		c := &contracts[index[item.ContractID]]
		c.LineItems = append(c.LineItems, item)
	}

	payments, err := loadPayments(ctx, r.DB, ids)
	if err != nil {
		return nil, translate("list contracts", "contract", 0, err)
	}
	for _, p := range payments {
		c := &contracts[index[p.ContractID]]
		c.Payments = append(c.Payments, p)
	}
	return contracts, nil
}

// Mutate locks the contract row, loads the full aggregate, lets fn change it
// and persists the result in the same transaction. Line items are replaced
// as a set; payments are diffed by id so recorded payments keep their ids
// and receipt numbers. Nothing is written when fn returns an error.
func (r *ContractRepository) Mutate(ctx context.Context, id int, fn func(c *models.Contract) error) (*models.Contract, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, translate("mutate contract", "contract", id, err)
	}
	defer tx.Rollback(ctx)

	c, err := loadContract(ctx, tx, id, true)
	if err != nil {
		return nil, translate("mutate contract", "contract", id, err)
	}
	number := c.ContractNumber
	before := map[int]bool{}
	for _, p := range c.Payments {
		before[p.ID] = true
	}

	if err := fn(c); err != nil {
		return nil, err
	}
	// Contract numbers are immutable once assigned
	c.ContractNumber = number

	err = tx.QueryRow(ctx,
		`UPDATE contracts SET contract_date=$1, customer_id=$2, delivery_address=$3, transport_cost=$4,
                total_discount=$5, status=$6, signed_at=$7, customer_signature=$8, company_signature=$9,
                delivered_at=$10, notes=$11, updated_at=CURRENT_TIMESTAMP
         WHERE id=$12
         RETURNING updated_at`,
		c.ContractDate, c.CustomerID, c.DeliveryAddress, c.TransportCost, c.TotalDiscount, c.Status,
		c.SignedAt, c.CustomerSignature, c.CompanySignature, c.DeliveredAt, c.Notes, id,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return nil, translate("mutate contract", "contract", id, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM contract_line_items WHERE contract_id=$1`, id); err != nil {
		return nil, translate("mutate contract", "contract", id, err)
	}
	if err := insertLineItems(ctx, tx, id, c.LineItems); err != nil {
		return nil, translate("mutate contract", "contract", id, err)
	}

	kept := map[int]bool{}
	for i := range c.Payments {
		p := &c.Payments[i]
		if p.ID != 0 && before[p.ID] {
			kept[p.ID] = true
			continue
		}
		p.ID = 0
		if err := insertPayment(ctx, tx, id, p); err != nil {
			return nil, translate("mutate contract", "contract", id, err)
		}
	}
	for paymentID := range before {
		if kept[paymentID] {
			continue
		}
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE id=$1 AND contract_id=$2`, paymentID, id); err != nil {
			return nil, translate("mutate contract", "contract", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translate("mutate contract", "contract", id, err)
	}
	return c, nil
}

// Delete removes a contract; line items, payments and attachment rows
// cascade
func (r *ContractRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM contracts WHERE id=$1`, id)
	if err != nil {
		return translate("delete contract", "contract", id, err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete contract", "contract", id, pgx.ErrNoRows)
	}
	return nil
}

func loadContract(ctx context.Context, q querier, id int, forUpdate bool) (*models.Contract, error) {
	query := `SELECT ` + contractColumns + contractFrom + ` WHERE c.id=$1`
	if forUpdate {
		query += ` FOR UPDATE OF c`
	}

	var c models.Contract
	if err := scanContract(q.QueryRow(ctx, query, id), &c); err != nil {
		return nil, err
	}

	var err error
	if c.LineItems, err = loadLineItems(ctx, q, []int{id}); err != nil {
		return nil, err
	}
	if c.Payments, err = loadPayments(ctx, q, []int{id}); err != nil {
		return nil, err
	}
	if c.Attachments, err = loadAttachments(ctx, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadLineItems(ctx context.Context, q querier, contractIDs []int) ([]models.RentalLineItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, contract_id, position, equipment_id, code, description, start_date, duration_type,
                duration, quantity, daily_rate, monthly_rate
         FROM contract_line_items
         WHERE contract_id = ANY($1)
         ORDER BY contract_id, position`, contractIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.RentalLineItem
	for rows.Next() {
		var item models.RentalLineItem
		err := rows.Scan(&item.ID, &item.ContractID, &item.Position, &item.EquipmentID, &item.Code,
			&item.Description, &item.StartDate, &item.DurationType, &item.Duration, &item.Quantity,
			&item.DailyRate, &item.MonthlyRate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func insertLineItems(ctx context.Context, tx pgx.Tx, contractID int, items []models.RentalLineItem) error {
	for i := range items {
		item := &items[i]
		item.ContractID = contractID
		err := tx.QueryRow(ctx,
			`INSERT INTO contract_line_items(contract_id, position, equipment_id, code, description, start_date,
                                             duration_type, duration, quantity, daily_rate, monthly_rate)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
             RETURNING id`,
			contractID, item.Position, item.EquipmentID, item.Code, item.Description, item.StartDate,
			item.DurationType, item.Duration, item.Quantity, item.DailyRate, item.MonthlyRate,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func loadPayments(ctx context.Context, q querier, contractIDs []int) ([]models.Payment, error) {
	rows, err := q.Query(ctx,
		`SELECT id, contract_id, receipt_number, payment_method, payment_date, amount,
                check_number, bank_name, check_date, check_image, notes,
                COALESCE(created_by_user_id, 0), created_at
         FROM payments
         WHERE contract_id = ANY($1)
         ORDER BY contract_id, payment_date, id`, contractIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var (
			p                                 models.Payment
			kind                              models.PaymentMethodKind
			checkNumber, bankName, checkImage *string
			checkDate                         *time.Time
		)
		err := rows.Scan(&p.ID, &p.ContractID, &p.ReceiptNumber, &kind, &p.PaymentDate, &p.Amount,
			&checkNumber, &bankName, &checkDate, &checkImage, &p.Notes, &p.CreatedByUserID, &p.CreatedAt)
		if err != nil {
			return nil, err
		}

		var check *models.CheckDetails
		if kind == models.MethodCheck {
			check = &models.CheckDetails{
				Number:    deref(checkNumber),
				BankName:  deref(bankName),
				CheckDate: checkDate,
				ImageKey:  deref(checkImage),
			}
		}
		if p.Method, err = models.NewPaymentMethod(kind, check); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func insertPayment(ctx context.Context, tx pgx.Tx, contractID int, p *models.Payment) error {
	if p.ReceiptNumber == "" {
		number, err := nextNumber(ctx, tx, "receipt_number_seq", "RCP")
		if err != nil {
			return err
		}
		p.ReceiptNumber = number
	}

	var (
		checkNumber, bankName, checkImage *string
		checkDate                         *time.Time
	)
	if check, ok := p.Method.Check(); ok {
		checkNumber = nullable(check.Number)
		bankName = nullable(check.BankName)
		checkImage = nullable(check.ImageKey)
		checkDate = check.CheckDate
	}

	p.ContractID = contractID
	return tx.QueryRow(ctx,
		`INSERT INTO payments(contract_id, receipt_number, payment_method, payment_date, amount,
                              check_number, bank_name, check_date, check_image, notes, created_by_user_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, 0))
         RETURNING id, created_at`,
		contractID, p.ReceiptNumber, p.Method.Kind(), p.PaymentDate, p.Amount,
		checkNumber, bankName, checkDate, checkImage, p.Notes, p.CreatedByUserID,
	).Scan(&p.ID, &p.CreatedAt)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
