package staff

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

var (
	ErrNotFound  = errors.New("staff profile not found")
	ErrInvalid   = errors.New("invalid staff profile")
	ErrForbidden = errors.New("not permitted")
)

// Profile maps to the profiles table. Profiles are created by the identity
// provider on first sign-in; this package only reads and edits them.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      auth.Role `db:"role" json:"role"`
	Avatar    *string   `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Case is one treatment as seen from a dentist's or nurse's case list.
type Case struct {
	PatientName string    `json:"patient_name"`
	Date        time.Time `json:"date"`
	Treatment   string    `json:"treatment"`
	Notes       string    `json:"notes"`
}
