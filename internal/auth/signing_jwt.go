package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"scaffold-backend/internal/timeutil"
)

// SigningClaims authorize a customer to view and sign one contract
// without a staff account
type SigningClaims struct {
	ContractID     int    `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	Type           string `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateSigningToken creates a public e-signature link token valid for
// jwt.signing_link_hours
func (j *JWTManager) GenerateSigningToken(contractID int, contractNumber string) (string, time.Time, error) {
	now := timeutil.Now()
	hours := j.cfg.JWT.SigningLinkHours
	if hours <= 0 {
		hours = 72
	}
	expirationTime := now.Add(time.Duration(hours) * time.Hour)

	token, err := j.sign(&SigningClaims{
		ContractID:     contractID,
		ContractNumber: contractNumber,
		Type:           TypeContractSign,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	})
	return token, expirationTime, err
}

// ValidateSigningToken verifies a signing link token and returns the claims
func (j *JWTManager) ValidateSigningToken(tokenString string) (*SigningClaims, error) {
	claims := &SigningClaims{}
	if err := j.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeContractSign || claims.ContractID <= 0 {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
