package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/postloop/postloop-api/configs"
	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/pkg/utils"
)

const (
	xAuthURL         = "https://x.com/i/oauth2/authorize"
	pinterestAuthURL = "https://www.pinterest.com/oauth/"
	tiktokAuthURL    = "https://www.tiktok.com/v2/auth/authorize"
	xRevokeURL       = "https://api.x.com/2/oauth2/revoke"
	tiktokRevokeURL  = "https://open.tiktokapis.com/v2/oauth/revoke/"
)

type PlatformService interface {
	GetAuthURL(ctx context.Context, platform, state, codeChallenge string) string
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Delete(ctx context.Context, userID, accountID int64) error
}

type platformService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewPlatformService(cfg config.Config, sa repository.SocialAccountRepository) PlatformService {
	return &platformService{
		cfg: cfg,
		sa:  sa,
	}
}

// GetAuthURL builds the consent page URL for the given platform. X requires
// a PKCE code challenge; the other platforms ignore the argument.
func (s *platformService) GetAuthURL(ctx context.Context, platform, state, codeChallenge string) string {
	switch platform {
	case models.PlatformX:
		params := url.Values{}
		params.Add("response_type", "code")
		params.Add("client_id", s.cfg.XClientID)
		params.Add("redirect_uri", s.cfg.XRedirectURI)
		params.Add("scope", "tweet.read tweet.write users.read offline.access")
		params.Add("state", state)
		params.Add("code_challenge", codeChallenge)
		params.Add("code_challenge_method", "S256")

		return fmt.Sprintf("%s?%s", xAuthURL, params.Encode())

	case models.PlatformPinterest:
		params := url.Values{}
		params.Add("response_type", "code")
		params.Add("client_id", s.cfg.PinterestClientID)
		params.Add("redirect_uri", s.cfg.PinterestRedirectURI)
		params.Add("scope", "boards:read,pins:read,pins:write,user_accounts:read")
		params.Add("state", state)

		return fmt.Sprintf("%s?%s", pinterestAuthURL, params.Encode())

	case models.PlatformTiktok:
		params := url.Values{}
		params.Add("response_type", "code")
		params.Add("client_key", s.cfg.TiktokClientKey)
		params.Add("redirect_uri", s.cfg.TiktokRedirectURI)
		params.Add("scope", "user.info.basic,user.info.profile,video.publish,video.upload")
		params.Add("state", state)

		return fmt.Sprintf("%s?%s", tiktokAuthURL, params.Encode())

	default:
		return ""
	}
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("Error getting social accounts")
	}

	return accounts, nil
}

func (s *platformService) Delete(ctx context.Context, userID, accountID int64) error {
	if userID == 0 || accountID == 0 {
		err := errors.New("UserID or AccountID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("Social account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	accountInfo, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return errors.New("Unable to get social account info")
	}

	decryptedAccessToken, err := utils.Decrypt(accountInfo.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	// Revocation failure still removes the stored account. The token
	// expires on its own and keeping the row around blocks reconnecting.
	switch accountInfo.Platform {
	case models.PlatformX:
		if err := s.revokeX(ctx, decryptedAccessToken); err != nil {
			slog.Info(err.Error())
		}
	case models.PlatformTiktok:
		if err := s.revokeTiktok(ctx, decryptedAccessToken); err != nil {
			slog.Info(err.Error())
		}
	}

	if err := s.sa.Remove(ctx, accountID); err != nil {
		return errors.New("Error removing account info")
	}

	return nil
}

func (s *platformService) revokeX(ctx context.Context, accessToken string) error {
	data := url.Values{}
	data.Add("token", accessToken)
	data.Add("token_type_hint", "access_token")
	data.Add("client_id", s.cfg.XClientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xRevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(string(respBody))
		return fmt.Errorf("revoke failed, status code: %d", resp.StatusCode)
	}

	return nil
}

func (s *platformService) revokeTiktok(ctx context.Context, accessToken string) error {
	data := url.Values{}
	data.Add("client_key", s.cfg.TiktokClientKey)
	data.Add("client_secret", s.cfg.TiktokClientSecret)
	data.Add("token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokRevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(string(respBody))
		return fmt.Errorf("revoke failed, status code: %d", resp.StatusCode)
	}

	return nil
}
