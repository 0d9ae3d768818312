package api

import "time"

// File mirrors the server's file record.
type File struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerID"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	IsPublic    bool      `json:"isPublic"`
	SharedToken *string   `json:"sharedToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarURL,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
	Filename  string `json:"filename"`
}

type ShareResponse struct {
	SharedToken string `json:"sharedToken"`
	ShareURL    string `json:"shareUrl"`
	File        File   `json:"file"`
}

type SharedFile struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// SharedFileResponse wraps the public shared-link payload.
type SharedFileResponse struct {
	File SharedFile `json:"file"`
}
