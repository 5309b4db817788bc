package user

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/domain"
)

// UserStatus represents the account state.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusDeleted   UserStatus = "deleted"
)

// MinPasswordLength is the shortest password accepted on registration or change.
const MinPasswordLength = 8

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern = regexp.MustCompile(`^(?:\+88|01[3-9])[0-9]{8}$`)
)

// User is the aggregate root for an account.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	passwordHash string
	nid          string
	contact      string
	googleID     string
	image        string
	role         auth.Role
	status       UserStatus
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateContact checks a Bangladeshi phone number. Empty is allowed.
func ValidateContact(contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil
	}
	if !contactPattern.MatchString(contact) {
		return domain.NewFieldValidationError("contact", "invalid Bangladeshi phone number")
	}
	return nil
}

// NewUser creates an active account with the user role. passwordHash must
// already be hashed; it may be empty for accounts created through Google.
func NewUser(name, email, passwordHash, nid, contact, googleID, image string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return nil, domain.NewFieldValidationError("name", "name is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewFieldValidationError("email", "a valid email is required")
	}
	if passwordHash == "" && googleID == "" {
		return nil, domain.NewFieldValidationError("password", "password is required")
	}
	if err := ValidateContact(contact); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		nid:          strings.TrimSpace(nid),
		contact:      strings.TrimSpace(contact),
		googleID:     googleID,
		image:        image,
		role:         auth.RoleUser,
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, passwordHash, nid, contact, googleID, image string,
	role auth.Role,
	status UserStatus,
	lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		nid:          nid,
		contact:      contact,
		googleID:     googleID,
		image:        image,
		role:         role,
		status:       status,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Name() string { return u.name }
func (u *User) Email() string { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) NID() string { return u.nid }
func (u *User) Contact() string { return u.contact }
func (u *User) GoogleID() string { return u.googleID }
func (u *User) Image() string { return u.image }
func (u *User) Role() auth.Role { return u.role }
func (u *User) Status() UserStatus { return u.status }
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// --- Behavior ---

// Principal returns the identity used for authorization decisions.
func (u *User) Principal() auth.Principal {
	return auth.Principal{ID: u.id, Email: u.email, Role: u.role}
}

// IsActive returns true if the account may sign in.
func (u *User) IsActive() bool {
	return u.status == StatusActive
}

// UpdateProfile sets the display name and, when non-empty, the contact number.
func (u *User) UpdateProfile(name, contact string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return domain.NewFieldValidationError("name", "name must be at least 2 characters")
	}
	contact = strings.TrimSpace(contact)
	if err := ValidateContact(contact); err != nil {
		return err
	}
	u.name = name
	if contact != "" {
		u.contact = contact
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetPasswordHash replaces the stored hash.
func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
}

// LinkGoogle attaches a Google account and fills a missing avatar.
func (u *User) LinkGoogle(googleID, image string) {
	u.googleID = googleID
	if u.image == "" {
		u.image = image
	}
	u.updatedAt = time.Now().UTC()
}

// RecordLogin stamps the last successful sign-in.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.updatedAt = now
}

// PromoteToAdmin grants the admin role.
func (u *User) PromoteToAdmin() {
	u.role = auth.RoleAdmin
	u.updatedAt = time.Now().UTC()
}
