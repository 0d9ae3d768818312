package models

type User struct {
	BaseModel
	Email        string  `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string `json:"-" gorm:"type:text"`
	Name         string  `json:"name" gorm:"type:varchar(255);not null"`
	AvatarURL    *string `json:"avatarURL,omitempty" gorm:"type:text"`
	FederatedID  *string `json:"-" gorm:"type:varchar(255);uniqueIndex"`
	Files        []File  `json:"-" gorm:"foreignKey:OwnerID"`
}

// HasPassword reports whether the account can log in with email and password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasFederatedIdentity reports whether the account is linked to an identity provider.
func (u *User) HasFederatedIdentity() bool {
	return u.FederatedID != nil && *u.FederatedID != ""
}
