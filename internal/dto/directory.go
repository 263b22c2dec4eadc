package dto

import (
	"encoding/json"
	"fmt"

	"github.com/ids-upch/advisory-api/internal/models"
)

// The directory backend has shipped two wire shapes for professor
// listings: the legacy Spanish payload and a newer nested one. Each
// shape gets its own record type and one deterministic adapter into the
// canonical models.Professor.

// LegacyDirectoryRecord is the flat Spanish-field listing:
// { id, nombre, tipo, email, telefono, estado }.
type LegacyDirectoryRecord struct {
	ID       json.Number `json:"id"`
	Nombre   string      `json:"nombre"`
	Tipo     string      `json:"tipo"`
	Email    string      `json:"email"`
	Telefono string      `json:"telefono"`
	Estado   string      `json:"estado"`
}

// Canonical converts a legacy record to the internal professor shape.
func (r LegacyDirectoryRecord) Canonical() models.Professor {
	return models.Professor{
		ID:     r.ID.String(),
		Name:   r.Nombre,
		Email:  r.Email,
		Phone:  r.Telefono,
		Status: r.Estado,
	}
}

// NestedDirectoryRecord is the envelope shape with the person embedded
// under a user object: { id, user: { name, email }, phone, status }.
type NestedDirectoryRecord struct {
	ID   json.Number `json:"id"`
	User struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Canonical converts a nested record to the internal professor shape.
func (r NestedDirectoryRecord) Canonical() models.Professor {
	return models.Professor{
		ID:     r.ID.String(),
		Name:   r.User.Name,
		Email:  r.User.Email,
		Phone:  r.Phone,
		Status: r.Status,
	}
}

// DecodeDirectoryListing parses a raw directory response body. The
// legacy backend returns a bare array, the newer one wraps it in
// { success, data }. Records missing a name are assumed to be the
// nested shape; a record that fits neither is an error rather than a
// silently dropped entry.
func DecodeDirectoryListing(body []byte) ([]models.Professor, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw := body
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("directory listing is not an array: %w", err)
	}

	professors := make([]models.Professor, 0, len(items))
	for i, item := range items {
		var legacy LegacyDirectoryRecord
		if err := json.Unmarshal(item, &legacy); err == nil && legacy.Nombre != "" {
			professors = append(professors, legacy.Canonical())
			continue
		}

		var nested NestedDirectoryRecord
		if err := json.Unmarshal(item, &nested); err == nil && nested.User.Name != "" {
			professors = append(professors, nested.Canonical())
			continue
		}

		return nil, fmt.Errorf("directory record %d matches no known shape", i)
	}

	return professors, nil
}
