package user

import (
	"time"

	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
)

// Request is the account payload of signup, create and update.
// Roles holds role ids. nil leaves the roles of an existing user unchanged,
// an empty list gives the baseline user role.
type Request struct {
	Username       string     `json:"username"       validate:"required,max=50"`
	Email          string     `json:"email"          validate:"required,email,max=255"`
	Password       string     `json:"password"       validate:"omitempty,min=6,max=255"`
	Enabled        *bool      `json:"enabled"`
	FirstName      string     `json:"firstName"      validate:"max=100"`
	LastName       string     `json:"lastName"       validate:"max=100"`
	Phone          string     `json:"phone"          validate:"max=30"`
	City           string     `json:"city"           validate:"max=100"`
	PostalCode     string     `json:"postalCode"     validate:"max=20"`
	Address        string     `json:"address"        validate:"max=255"`
	Profession     string     `json:"profession"     validate:"max=100"`
	Sex            string     `json:"sex"            validate:"max=10"`
	BirthDate      *time.Time `json:"birthDate"`
	DrivingLicence bool       `json:"drivingLicence"`
	Roles          []uint     `json:"roles"`
}

// User returns a new account holding the request fields, without password and grants.
func (r *Request) User() *models.User {
	return &models.User{
		Email:          user.NormalizeEmail(r.Email),
		Username:       r.Username,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		City:           r.City,
		PostalCode:     r.PostalCode,
		Address:        r.Address,
		Profession:     r.Profession,
		Sex:            r.Sex,
		BirthDate:      r.BirthDate,
		DrivingLicence: r.DrivingLicence,
	}
}

// Profile returns the stored fields of an update. A non empty password is hashed.
// The email is the login name and is not changed by updates.
func (r *Request) Profile() (user.Profile, error) {
	p := user.Profile{
		Username:       &r.Username,
		Enabled:        r.Enabled,
		FirstName:      &r.FirstName,
		LastName:       &r.LastName,
		Phone:          &r.Phone,
		City:           &r.City,
		PostalCode:     &r.PostalCode,
		Address:        &r.Address,
		Profession:     &r.Profession,
		Sex:            &r.Sex,
		BirthDate:      r.BirthDate,
		DrivingLicence: &r.DrivingLicence,
	}

	if r.Password != "" {
		hash, err := models.HashPassword(r.Password)
		if err != nil {
			return user.Profile{}, err //nolint:wrapcheck
		}

		p.Password = &hash
	}

	return p, nil
}
