package models

import "github.com/google/uuid"

// File is the registry entry for one uploaded object. OwnerID and StorageKey are
// written once at creation. SharedToken is non-nil exactly when IsPublic is true.
type File struct {
	BaseModel
	OwnerID     uuid.UUID `json:"ownerID" gorm:"type:uuid;not null;index"`
	Filename    string    `json:"filename" gorm:"type:varchar(1024);not null"`
	StorageKey  string    `json:"-" gorm:"type:text;not null;uniqueIndex"`
	MimeType    string    `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size        int64     `json:"size" gorm:"not null;default:0"`
	IsPublic    bool      `json:"isPublic" gorm:"not null;default:false"`
	SharedToken *string   `json:"sharedToken,omitempty" gorm:"type:varchar(64);uniqueIndex"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}

// SharingConsistent reports whether the share flag and token agree.
func (f *File) SharingConsistent() bool {
	hasToken := f.SharedToken != nil && *f.SharedToken != ""
	return f.IsPublic == hasToken
}
