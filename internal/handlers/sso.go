package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
)

type SSOHandler struct {
	Cfg          *config.Config
	SSOService   *services.SSOService
	OAuthService *services.OAuthProviderService
	States       services.StateStore
}

func NewSSOHandler(cfg *config.Config, sso *services.SSOService, oauth *services.OAuthProviderService, states services.StateStore) *SSOHandler {
	return &SSOHandler{
		Cfg:          cfg,
		SSOService:   sso,
		OAuthService: oauth,
		States:       states,
	}
}

func (h *SSOHandler) ListProviders(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "Providers fetched successfully", fiber.Map{
		"providers": h.OAuthService.EnabledProviders(),
	})
}

// BeginLogin redirects the browser to the provider. With ?mode=json the URL is
// returned instead, for clients that cannot follow cross-origin redirects.
func (h *SSOHandler) BeginLogin(c *fiber.Ctx) error {
	provider := c.Params("provider")

	key, state, err := services.NewOAuthState(provider, h.Cfg.SSO.StateTTL)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating state")
	}

	authCodeURL, err := h.OAuthService.AuthCodeURL(c.UserContext(), provider, state, key)
	if err != nil {
		if errors.Is(err, services.ErrUnknownProvider) {
			return utils.Error(c, fiber.StatusNotFound, "unknown provider")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "provider unavailable")
	}

	if err := h.States.Save(c.UserContext(), key, state); err != nil {
		logger.Error("oauth_state_save_failed", err, map[string]interface{}{
			"provider": provider,
		})
		return utils.Error(c, fiber.StatusInternalServerError, "failed saving state")
	}

	if c.Query("mode") == "json" {
		return utils.Success(c, fiber.StatusOK, "Redirect URL generated", fiber.Map{"url": authCodeURL})
	}
	return c.Redirect(authCodeURL, fiber.StatusFound)
}

func (h *SSOHandler) HandleCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	code := c.Query("code")
	stateKey := c.Query("state")

	if providerErr := c.Query("error"); providerErr != "" {
		return h.failLogin(c, provider, "provider denied login: "+providerErr)
	}
	if code == "" {
		return h.failLogin(c, provider, "authorization code is required")
	}

	state, err := h.States.Consume(c.UserContext(), stateKey)
	if err != nil || state.Provider != provider {
		logger.Warn("oauth_state_invalid", map[string]interface{}{
			"provider": provider,
			"ip":       c.IP(),
		})
		return h.failLogin(c, provider, "invalid or expired login attempt")
	}

	token, err := h.OAuthService.ExchangeCode(c.UserContext(), provider, code)
	if err != nil {
		return h.failLogin(c, provider, err.Error())
	}

	profile, err := h.OAuthService.VerifyIdentity(c.UserContext(), provider, token, state.Nonce)
	if err != nil {
		return h.failLogin(c, provider, err.Error())
	}

	user, err := h.SSOService.FindOrCreateUser(c.UserContext(), profile)
	if err != nil {
		return h.failLogin(c, provider, services.Message(err))
	}

	jwtToken, err := utils.GenerateToken(user)
	if err != nil {
		return h.failLogin(c, provider, "failed to generate token")
	}

	logger.Info("sso_login_success", map[string]interface{}{
		"user_id":  user.ID.String(),
		"email":    user.Email,
		"provider": provider,
	})

	return c.Redirect(h.Cfg.Server.FrontendURL+"/auth/callback?token="+url.QueryEscape(jwtToken), fiber.StatusFound)
}

func (h *SSOHandler) failLogin(c *fiber.Ctx, provider, reason string) error {
	logger.Warn("sso_login_failed", map[string]interface{}{
		"provider": provider,
		"reason":   reason,
		"ip":       c.IP(),
	})
	return c.Redirect(h.Cfg.Server.FrontendURL+"/login?error="+url.QueryEscape(reason), fiber.StatusFound)
}
