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
	pinterestTokenURL = "https://api.pinterest.com/v5/oauth/token"
	pinterestAPIBase  = "https://api.pinterest.com/v5"
)

type PinterestService interface {
	PinterestCallback(ctx context.Context, code string, userID int64) error
	RefreshPinterestToken(ctx context.Context, accountID int64, encryptedRefreshToken string) error
	ListBoards(ctx context.Context, userID int64) ([]transfer.PinterestBoard, error)
	CreatePin(ctx context.Context, acc *models.SocialAccount, pin *transfer.PinCreation) error
}

type pinterestService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewPinterestService(cfg config.Config, sa repository.SocialAccountRepository) PinterestService {
	return &pinterestService{
		cfg: cfg,
		sa:  sa,
	}
}

func (s *pinterestService) PinterestCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	data := url.Values{}
	data.Add("grant_type", "authorization_code")
	data.Add("code", code)
	data.Add("redirect_uri", s.cfg.PinterestRedirectURI)

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

	displayName := userInfo.BusinessName
	if displayName == "" {
		displayName = userInfo.Username
	}

	accountInfo := &models.SocialAccount{
		UserID:          userID,
		Platform:        models.PlatformPinterest,
		AccountID:       userInfo.Username,
		AccountName:     displayName,
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

func (s *pinterestService) RefreshPinterestToken(ctx context.Context, accountID int64, encryptedRefreshToken string) error {
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

	// Pinterest keeps the same refresh token unless a new one is issued.
	newRefreshToken := ""
	if tokenResponse.RefreshToken != "" {
		newRefreshToken, err = utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	return s.sa.SetToken(ctx, accountID, &models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   newRefreshToken,
		TokenExpiresAt: GetExpiresAt(tokenResponse.ExpiresIn),
	})
}

func (s *pinterestService) ListBoards(ctx context.Context, userID int64) ([]transfer.PinterestBoard, error) {
	acc, err := s.sa.GetByUserAndPlatform(ctx, userID, models.PlatformPinterest)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.New("pinterest account is not connected")
	}

	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	var boards []transfer.PinterestBoard
	bookmark := ""

	for {
		endpoint := pinterestAPIBase + "/boards?page_size=100"
		if bookmark != "" {
			endpoint += "&bookmark=" + url.QueryEscape(bookmark)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to list boards, status code: %d", resp.StatusCode)
		}

		var page transfer.PinterestBoardsResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}

		boards = append(boards, page.Items...)
		if page.Bookmark == "" {
			break
		}
		bookmark = page.Bookmark
	}

	return boards, nil
}

func (s *pinterestService) CreatePin(ctx context.Context, acc *models.SocialAccount, pin *transfer.PinCreation) error {
	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	body, err := json.Marshal(pin)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pinterestAPIBase+"/pins", bytes.NewReader(body))
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
		return fmt.Errorf("failed to create pin, status code: %d", resp.StatusCode)
	}

	return nil
}

// requestToken posts to the Pinterest token endpoint. Pinterest requires
// client credentials as basic auth rather than form fields.
func (s *pinterestService) requestToken(ctx context.Context, data url.Values) (*transfer.PinterestTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pinterestTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(s.cfg.PinterestClientID + ":" + s.cfg.PinterestClientSecret))
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

	var tokenResponse transfer.PinterestTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &tokenResponse, nil
}

func (s *pinterestService) userInfo(ctx context.Context, accessToken string) (*transfer.PinterestUserResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pinterestAPIBase+"/user_account", nil)
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

	var userResponse transfer.PinterestUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &userResponse, nil
}
