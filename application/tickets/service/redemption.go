package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
)

// redemptionPayload is what the QR code on a ticket encodes. The key names
// are read by the door scanners and must not change.
type redemptionPayload struct {
	ID             string `json:"id"`
	Class          string `json:"tipo"`
	Name           string `json:"nombre"`
	Identification string `json:"identificacion"`
}

// NewRedemptionCode builds a fresh code for one ticket. Uniqueness comes
// from the random uuid; the remaining fields only help staff at the door.
func NewRedemptionCode(class, buyerName, buyerIdentification string) (string, error) {
	payload := redemptionPayload{
		ID:             uuid.NewString(),
		Class:          class,
		Name:           strings.Join(strings.Fields(buyerName), "_"),
		Identification: buyerIdentification,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode redemption code: %w", err)
	}
	return string(encoded), nil
}
