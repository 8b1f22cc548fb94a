package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scaffold-backend/internal/models"
)

type AttachmentRepository struct {
	DB *pgxpool.Pool
}

func NewAttachmentRepository(db *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

const attachmentColumns = `id, contract_id, file_name, file_type, file_size, path, description,
        COALESCE(uploaded_by_id, 0), created_at`

func scanAttachment(row interface{ Scan(...any) error }, a *models.Attachment) error {
	return row.Scan(&a.ID, &a.ContractID, &a.FileName, &a.FileType, &a.FileSize, &a.Path,
		&a.Description, &a.UploadedByID, &a.CreatedAt)
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO contract_attachments(contract_id, file_name, file_type, file_size, path, description, uploaded_by_id)
         VALUES($1, $2, $3, $4, $5, $6, NULLIF($7, 0))
         RETURNING id, created_at`,
		a.ContractID, a.FileName, a.FileType, a.FileSize, a.Path, a.Description, a.UploadedByID,
	).Scan(&a.ID, &a.CreatedAt)
	return translate("create attachment", "contract", a.ContractID, err)
}

// Get returns the attachment only when it belongs to the contract
func (r *AttachmentRepository) Get(ctx context.Context, contractID, id int) (*models.Attachment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM contract_attachments WHERE id=$1 AND contract_id=$2`, id, contractID)

	var a models.Attachment
	if err := scanAttachment(row, &a); err != nil {
		return nil, translate("get attachment", "attachment", id, err)
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByContract(ctx context.Context, contractID int) ([]models.Attachment, error) {
	list, err := loadAttachments(ctx, r.DB, contractID)
	return list, translate("list attachments", "contract", contractID, err)
}

func (r *AttachmentRepository) Delete(ctx context.Context, contractID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM contract_attachments WHERE id=$1 AND contract_id=$2`, id, contractID)
	if err != nil {
		return translate("delete attachment", "attachment", id, err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete attachment", "attachment", id, pgx.ErrNoRows)
	}
	return nil
}

func loadAttachments(ctx context.Context, q querier, contractID int) ([]models.Attachment, error) {
	rows, err := q.Query(ctx,
		`SELECT `+attachmentColumns+` FROM contract_attachments WHERE contract_id=$1 ORDER BY created_at, id`,
		contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := scanAttachment(rows, &a); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
