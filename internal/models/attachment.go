package models

import "time"

// Attachment is a document stored against a contract. Immutable once created.
type Attachment struct {
	ID           int       `json:"id"`
	ContractID   int       `json:"contract_id"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	Path         string    `json:"path"`
	Description  string    `json:"description"`
	UploadedByID int       `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Signer identifies whose signature is being captured
type Signer string

const (
	SignerCompany  Signer = "company"
	SignerCustomer Signer = "customer"
)

// SignatureRequest carries a signature image as a data URI
type SignatureRequest struct {
	Signer    Signer `json:"signer" validate:"required,oneof=company customer"`
	Signature string `json:"signature" validate:"required"`
}

// SignatureResult is returned after a signature is stored
type SignatureResult struct {
	Signer   Signer     `json:"signer"`
	URI      string     `json:"uri"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}

// SigningLink is a public e-signature link for a customer
type SigningLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
