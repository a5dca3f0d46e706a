package handlers

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/postloop/postloop-api/configs"
	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/service"
	"github.com/postloop/postloop-api/pkg/utils"
)

const verifierCookieName = "x_code_verifier"

type PlatformHandler struct {
	ps  service.PlatformService
	x   service.XService
	pi  service.PinterestService
	tt  service.TiktokService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, x service.XService, pi service.PinterestService, tt service.TiktokService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		x:   x,
		pi:  pi,
		tt:  tt,
		cfg: cfg,
	}
}

func (h *PlatformHandler) AddSocialAccount(c *fiber.Ctx) error {
	platform := c.Params("platform")
	state := c.Query("state")

	codeChallenge := ""
	if platform == models.PlatformX {
		verifier, err := utils.GenerateCodeVerifier()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong",
			})
		}

		c.Cookie(&fiber.Cookie{
			Name:     verifierCookieName,
			Value:    verifier,
			HTTPOnly: true,
			Secure:   h.cfg.IsProduction(),
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
		})

		codeChallenge = utils.CodeChallenge(verifier)
	}

	authURL := h.ps.GetAuthURL(c.Context(), platform, state, codeChallenge)
	if authURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported platform",
		})
	}

	return c.Redirect(authURL)
}

func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	platform := c.Params("platform")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	switch platform {
	case models.PlatformX:
		verifier := c.Cookies(verifierCookieName)
		c.Cookie(&fiber.Cookie{
			Name:   verifierCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		err = h.x.XCallback(c.Context(), code, verifier, userID)
	case models.PlatformPinterest:
		err = h.pi.PinterestCallback(c.Context(), code, userID)
	case models.PlatformTiktok:
		err = h.tt.TiktokCallback(c.Context(), code, userID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported platform",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.ps.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch social accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *PlatformHandler) ListPinterestBoards(c *fiber.Ctx) error {
	userID := GetUserID(c)

	boards, err := h.pi.ListBoards(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch boards",
		})
	}

	return c.JSON(boards)
}

func (h *PlatformHandler) DeleteSocialAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountId := c.QueryInt("id", 0)

	err := h.ps.Delete(c.Context(), userID, int64(accountId))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete social account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
