package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User represents a volunteer account in the system.
// A user holds roles and may additionally be granted permissions directly.
type User struct {
	// ID is the random unique identifier for the user, assigned before insert.
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	// Email is the unique login name of the user.
	Email string `gorm:"unique;size:255;not null" json:"email"`
	// Username is the display name of the user.
	Username string `gorm:"size:100" json:"username"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255;not null" json:"-"`
	// Enabled indicates whether the user account can log in.
	Enabled bool `json:"enabled"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100" json:"firstName"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100" json:"lastName"`
	// Phone is the contact phone number.
	Phone string `gorm:"size:30" json:"phone"`
	// City of residence.
	City string `gorm:"size:100" json:"city"`
	// PostalCode of the residence.
	PostalCode string `gorm:"size:20" json:"postalCode"`
	// Address is the street address.
	Address string `gorm:"size:255" json:"address"`
	// Profession of the volunteer.
	Profession string `gorm:"size:100" json:"profession"`
	// BirthDate of the volunteer, nil if unknown.
	BirthDate *time.Time `json:"birthDate,omitempty"`
	// DrivingLicence indicates whether the volunteer can drive.
	DrivingLicence bool `json:"drivingLicence"`
	// Sex as declared by the volunteer.
	Sex string `gorm:"size:10" json:"sex"`
	// Roles held by the user.
	Roles []Role `gorm:"many2many:user_roles;" json:"roles"`
	// Permissions granted directly to the user.
	Permissions []Permission `gorm:"many2many:user_permissions;" json:"permissions"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a random id to new users.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	return nil
}

// Equal reports whether both users carry the same assigned id.
func (u User) Equal(o User) bool {
	return u.ID != uuid.Nil && u.ID == o.ID
}

// HasRole reports whether the user holds the role with id.
func (u User) HasRole(id uint) bool {
	for _, r := range u.Roles {
		if r.ID == id {
			return true
		}
	}

	return false
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It uses the default Argon2id parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID.String()).Msg("failed to verify password")
		return false
	}

	return match
}
