package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

type DenyReason string

const (
	DenyNone            DenyReason = ""
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyNotFound        DenyReason = "not-found"
	DenyNotOwner        DenyReason = "not-owner"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Err maps a denial onto the service error taxonomy. A record owned by someone
// else is reported exactly like a missing one.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == DenyUnauthenticated:
		return ErrUnauthenticated
	default:
		return fmt.Errorf("%w: file not found", ErrNotFound)
	}
}

// Gate decides whether a caller may act on a file record. It only inspects its
// arguments and never touches storage.
type Gate struct{}

func (Gate) AuthorizeOwner(principal *Principal, file *models.File) Decision {
	if principal == nil || principal.UserID == uuid.Nil {
		return deny(DenyUnauthenticated)
	}
	if file == nil {
		return deny(DenyNotFound)
	}
	if file.OwnerID != principal.UserID {
		return deny(DenyNotOwner)
	}
	return allow()
}

func (Gate) AuthorizeShared(token string, file *models.File) Decision {
	if file == nil || token == "" {
		return deny(DenyNotFound)
	}
	if !file.IsPublic || file.SharedToken == nil || *file.SharedToken != token {
		return deny(DenyNotFound)
	}
	return allow()
}
