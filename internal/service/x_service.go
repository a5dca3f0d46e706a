package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
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
	"github.com/postloop/postloop-api/internal/transfer"
	"github.com/postloop/postloop-api/pkg/utils"
)

const (
	xTokenURL = "https://api.x.com/2/oauth2/token"
	xAPIBase  = "https://api.x.com/2"
)

type XService interface {
	XCallback(ctx context.Context, code, codeVerifier string, userID int64) error
	RefreshXToken(ctx context.Context, accountID int64, encryptedRefreshToken string) error
	PublishText(ctx context.Context, acc *models.SocialAccount, text string) error
}

type xService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewXService(cfg config.Config, sa repository.SocialAccountRepository) XService {
	return &xService{
		cfg: cfg,
		sa:  sa,
	}
}

func (s *xService) XCallback(ctx context.Context, code, codeVerifier string, userID int64) error {
	if code == "" || codeVerifier == "" {
		err := errors.New("code or verifier is empty")
		slog.Info(err.Error())
		return err
	}

	data := url.Values{}
	data.Add("grant_type", "authorization_code")
	data.Add("code", code)
	data.Add("redirect_uri", s.cfg.XRedirectURI)
	data.Add("code_verifier", codeVerifier)

	tokenResponse, err := s.requestToken(ctx, data)
	if err != nil {
		return err
	}

	userInfo, err := s.userInfo(ctx, tokenResponse.AccessToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken, err := utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	accountInfo := &models.SocialAccount{
		UserID:          userID,
		Platform:        models.PlatformX,
		AccountID:       userInfo.ID,
		AccountName:     userInfo.Name,
		AccountUsername: userInfo.Username,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		TokenExpiresAt:  GetExpiresAt(tokenResponse.ExpiresIn),
	}

	if _, err := s.sa.Upsert(ctx, accountInfo); err != nil {
		return err
	}

	return nil
}

func (s *xService) RefreshXToken(ctx context.Context, accountID int64, encryptedRefreshToken string) error {
	refreshToken, err := utils.Decrypt(encryptedRefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Add("grant_type", "refresh_token")
	data.Add("refresh_token", refreshToken)

	tokenResponse, err := s.requestToken(ctx, data)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	newEncryptedRefreshToken, err := utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.sa.SetToken(ctx, accountID, &models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   newEncryptedRefreshToken,
		TokenExpiresAt: GetExpiresAt(tokenResponse.ExpiresIn),
	})
}

func (s *xService) PublishText(ctx context.Context, acc *models.SocialAccount, text string) error {
	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	body, err := json.Marshal(transfer.XTweetRequest{Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xAPIBase+"/tweets", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(string(respBody))
		return fmt.Errorf("failed to post tweet, status code: %d", resp.StatusCode)
	}

	var tweet transfer.XTweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&tweet); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// requestToken posts to the X token endpoint with client-credential basic auth.
func (s *xService) requestToken(ctx context.Context, data url.Values) (*transfer.XTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(s.cfg.XClientID + ":" + s.cfg.XClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(string(respBody))
		return nil, fmt.Errorf("token request failed, status code: %d", resp.StatusCode)
	}

	var tokenResponse transfer.XTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &tokenResponse, nil
}

func (s *xService) userInfo(ctx context.Context, accessToken string) (*transfer.XUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, xAPIBase+"/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info, status code: %d", resp.StatusCode)
	}

	var userResponse transfer.XUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &userResponse.Data, nil
}
