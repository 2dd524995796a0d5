package domain

import "time"

// DefaultUserType is assigned at creation when the signup payload carries
// no explicit classification. The caller-facing update path never changes
// userType afterwards.
const DefaultUserType = "regular"

// Credential is the stored authentication identity. All embedded reference
// ids (organization ids, role ids) are hex strings here; the storage layer
// converts them to its native id representation on the way in and out.
//
// PasswordHash never leaves the service: it is skipped during JSON encoding
// and only the hasher ever produces it.
type Credential struct {
	ID            string           `json:"id"`
	Email         string           `json:"email"`
	PasswordHash  string           `json:"-"`
	FirstName     string           `json:"firstName,omitempty"`
	LastName      string           `json:"lastName,omitempty"`
	Roles         []map[string]any `json:"roles,omitempty"`
	Organizations []Organization   `json:"organizations,omitempty"`
	UserType      string           `json:"userType"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Organization is a denormalized association owned by the user-profile
// service; this service stores and forwards it without interpreting
// anything beyond its reference ids.
type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"ownerId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CreateInput carries a signup payload into the domain service. Password is
// plaintext here and nowhere else.
type CreateInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Roles         []map[string]any
	Organizations []Organization
	UserType      string
}

// UpdateInput is the caller-facing mutable subset of a credential. Nil
// members are left untouched; only set members are merged into the record.
type UpdateInput struct {
	Email         *string
	FirstName     *string
	LastName      *string
	Roles         []map[string]any
	Organizations []Organization
}

// UpdateFields is what the store merges into a document. It is a superset
// of UpdateInput: passwordHash is reachable only through the
// change-password path, UpdatedAt is stamped on every mutation.
type UpdateFields struct {
	Email         *string
	FirstName     *string
	LastName      *string
	Roles         []map[string]any
	Organizations []Organization
	PasswordHash  *string
	UpdatedAt     time.Time
}

// Credentials is an email/password pair presented for verification.
type Credentials struct {
	Email    string
	Password string
}
