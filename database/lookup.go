package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type lookupKind int

const (
	lookupBySlug lookupKind = iota
	lookupByID
)

// LookupKey addresses a blog either by slug or by id
type LookupKey struct {
	kind lookupKind
	slug string
	id   uuid.UUID
}

func BySlug(slug string) LookupKey {
	return LookupKey{kind: lookupBySlug, slug: slug}
}

func ByID(id uuid.UUID) LookupKey {
	return LookupKey{kind: lookupByID, id: id}
}

func (k LookupKey) String() string {
	if k.kind == lookupByID {
		return fmt.Sprintf("id=%s", k.id)
	}
	return fmt.Sprintf("slug=%s", k.slug)
}

func (k LookupKey) where(tx *gorm.DB, table string) *gorm.DB {
	if k.kind == lookupByID {
		return tx.Where(table+".id = ?", k.id)
	}
	return tx.Where(table+".slug = ?", k.slug)
}
