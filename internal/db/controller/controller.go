// Package controller holds what the entity controllers below it share:
// sentinel errors and paging.
package controller

import (
	"errors"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a page size of 0 is requested.
	DefaultPageSize = 10
	// MaxPageSize caps the page size.
	MaxPageSize = 100

	// NameQueryPattern selects rows by name.
	NameQueryPattern = "name = ?"
	// OrderByName is the ordering of every listing.
	OrderByName = "name asc"
)

var (
	// ErrNotFound is wrapped by every entity specific not found error.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is wrapped when a unique name is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNameEmpty is returned when attempting to create/update an entity with an empty name.
	ErrNameEmpty = errors.New("name cannot be empty")
	// ErrReservedName is returned for permission names starting with the role authority prefix.
	ErrReservedName = errors.New("name starts with the reserved role prefix")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Page selects a slice of a listing. Number is zero based.
type Page struct {
	Number int `query:"page" json:"page"`
	Size   int `query:"size" json:"size"`
}

// Normalize applies the default and maximum size and clamps negative numbers.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}

	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}

	return p
}

// Offset of the first row of the page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Paginate returns a gorm scope selecting the normalized page.
func Paginate(p Page) func(db *gorm.DB) *gorm.DB {
	p = p.Normalize()

	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Size)
	}
}

// Result is one page of a listing.
type Result[T any] struct {
	Items []T   `json:"content"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"totalElements"`
}

// List counts model rows and loads page p of them ordered by name.
// scopes are applied to both the count and the listing.
func List[T any](db *gorm.DB, p Page, scopes ...func(*gorm.DB) *gorm.DB) (*Result[T], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	p = p.Normalize()
	db = db.Session(&gorm.Session{})

	var (
		model T
		total int64
		items []T
	)

	if err := db.Model(&model).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, err
	}

	if err := db.Scopes(scopes...).Scopes(Paginate(p)).Order(OrderByName).Find(&items).Error; err != nil {
		return nil, err
	}

	return &Result[T]{Items: items, Page: p.Number, Size: p.Size, Total: total}, nil
}

// NotFound maps gorm.ErrRecordNotFound to notFound and leaves other errors as they are.
func NotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	return err
}

// ReplaceAssociation replaces the associated records of name on model with values.
// An empty values clears the association.
func ReplaceAssociation[T any](tx *gorm.DB, model any, name string, values []T) error {
	a := tx.Model(model).Association(name)
	if len(values) == 0 {
		return a.Clear()
	}

	return a.Replace(values)
}
