package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"gorm.io/gorm"
)

// SSOProfile is the identity asserted by a provider after a verified login.
type SSOProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     *string
}

// FederatedID is the value stored on the user row for this identity.
func (p *SSOProfile) FederatedID() string {
	return p.Provider + ":" + p.Subject
}

type SSOService struct {
	DB         *gorm.DB
	LinkPolicy config.LinkPolicy
}

func NewSSOService(db *gorm.DB, cfg *config.Config) *SSOService {
	return &SSOService{DB: db, LinkPolicy: cfg.SSO.LinkPolicy}
}

// FindOrCreateUser resolves a provider identity to a local account. A known
// identity logs straight in; an unknown one either links to the account with
// the same email, as the link policy allows, or creates a new account.
func (s *SSOService) FindOrCreateUser(ctx context.Context, profile *SSOProfile) (*models.User, error) {
	if profile == nil || profile.Provider == "" || profile.Subject == "" {
		return nil, validationError("identity provider returned no subject")
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, validationError("identity provider returned no email address")
	}
	federatedID := profile.FederatedID()

	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "federated_id = ?", federatedID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstreamError("failed to look up federated identity", err)
	}

	err = s.DB.WithContext(ctx).First(&user, "email = ?", email).Error
	if err == nil {
		return s.linkExisting(ctx, &user, profile, federatedID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstreamError("failed to look up user", err)
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = models.User{
		Email:       email,
		Name:        name,
		AvatarURL:   profile.AvatarURL,
		FederatedID: &federatedID,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError("an account with this email already exists")
		}
		return nil, upstreamError("failed to create user", err)
	}

	logger.Info("sso_user_created", map[string]interface{}{
		"user_id":  user.ID.String(),
		"email":    user.Email,
		"provider": profile.Provider,
	})
	return &user, nil
}

func (s *SSOService) linkExisting(ctx context.Context, user *models.User, profile *SSOProfile, federatedID string) (*models.User, error) {
	if reason := s.linkRefusal(user, profile); reason != "" {
		logger.WarnWithUser(user.ID.String(), "sso_link_refused", map[string]interface{}{
			"provider": profile.Provider,
			"policy":   string(s.LinkPolicy),
			"reason":   reason,
		})
		return nil, conflictError("an account with this email already exists; sign in with your password")
	}

	updates := map[string]interface{}{"federated_id": federatedID}
	if user.AvatarURL == nil && profile.AvatarURL != nil {
		updates["avatar_url"] = *profile.AvatarURL
	}
	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError("identity is already linked to another account")
		}
		return nil, upstreamError("failed to link account", err)
	}
	user.FederatedID = &federatedID
	if avatar, ok := updates["avatar_url"].(string); ok {
		user.AvatarURL = &avatar
	}

	logger.InfoWithUser(user.ID.String(), "sso_account_linked", map[string]interface{}{
		"provider": profile.Provider,
		"policy":   string(s.LinkPolicy),
	})
	return user, nil
}

func (s *SSOService) linkRefusal(user *models.User, profile *SSOProfile) string {
	if user.HasFederatedIdentity() {
		return "already_linked"
	}
	switch s.LinkPolicy {
	case config.LinkPolicyAlways:
		return ""
	case config.LinkPolicyNever:
		return "policy"
	default:
		if !profile.EmailVerified {
			return "email_unverified"
		}
		return ""
	}
}
