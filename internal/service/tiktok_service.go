package service

import (
	"bytes"
	"context"
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
	tiktokTokenURL   = "https://open.tiktokapis.com/v2/oauth/token/"
	tiktokUserURL    = "https://open.tiktokapis.com/v2/user/info/?fields=open_id,avatar_url,display_name,username"
	tiktokContentURL = "https://open.tiktokapis.com/v2/post/publish/content/init/"
)

type TiktokService interface {
	TiktokCallback(ctx context.Context, code string, userID int64) error
	RefreshTiktokToken(ctx context.Context, accountID int64, encryptedRefreshToken string) error
	PublishPhotos(ctx context.Context, acc *models.SocialAccount, post *models.Post, imageURLs []string) error
}

type tiktokService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewTiktokService(cfg config.Config, sa repository.SocialAccountRepository) TiktokService {
	return &tiktokService{
		cfg: cfg,
		sa:  sa,
	}
}

func (s *tiktokService) TiktokCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	data := url.Values{}
	data.Add("client_key", s.cfg.TiktokClientKey)
	data.Add("client_secret", s.cfg.TiktokClientSecret)
	data.Add("code", code)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.TiktokRedirectURI)

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
		Platform:        models.PlatformTiktok,
		AccountID:       userInfo.Data.User.OpenID,
		AccountName:     userInfo.Data.User.DisplayName,
		AccountUsername: userInfo.Data.User.Username,
		ProfilePicture:  userInfo.Data.User.AvatarURL,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		TokenExpiresAt:  GetExpiresAt(tokenResponse.ExpiresIn),
	}

	if _, err := s.sa.Upsert(ctx, accountInfo); err != nil {
		return err
	}

	return nil
}

func (s *tiktokService) RefreshTiktokToken(ctx context.Context, accountID int64, encryptedRefreshToken string) error {
	refreshToken, err := utils.Decrypt(encryptedRefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Set("client_key", s.cfg.TiktokClientKey)
	data.Set("client_secret", s.cfg.TiktokClientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

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

// PublishPhotos pushes a photo post through the TikTok content API
// using PULL_FROM_URL, so the images must be publicly reachable.
func (s *tiktokService) PublishPhotos(ctx context.Context, acc *models.SocialAccount, post *models.Post, imageURLs []string) error {
	if len(imageURLs) == 0 {
		return errors.New("tiktok post requires at least one image")
	}

	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	uploadRequest := transfer.TiktokPhotoUploadRequest{
		PostInfo: transfer.TiktokPhotoPostInfo{
			Title:          post.Content,
			Description:    post.Content,
			PrivacyLevel:   "PUBLIC_TO_EVERYONE",
			DisableComment: false,
			AutoAddMusic:   true,
		},
		SourceInfo: transfer.TiktokPhotoSourceInfo{
			Source:          "PULL_FROM_URL",
			PhotoCoverIndex: 0,
			PhotoImages:     imageURLs,
		},
		PostMode:  "DIRECT_POST",
		MediaType: "PHOTO",
	}

	body, err := json.Marshal(uploadRequest)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokContentURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(string(respBody))
		return fmt.Errorf("failed to publish photos, status code: %d", resp.StatusCode)
	}

	var publishResponse transfer.TiktokPublishResponse
	if err := json.NewDecoder(resp.Body).Decode(&publishResponse); err != nil {
		slog.Info(err.Error())
		return err
	}

	if publishResponse.Error.Code != "" && publishResponse.Error.Code != "ok" {
		return fmt.Errorf("tiktok publish error: %s", publishResponse.Error.Message)
	}

	return nil
}

func (s *tiktokService) requestToken(ctx context.Context, data url.Values) (*transfer.TiktokTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

	var tokenResponse transfer.TiktokTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &tokenResponse, nil
}

func (s *tiktokService) userInfo(ctx context.Context, accessToken string) (*transfer.TiktokUserResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tiktokUserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var userResponse transfer.TiktokUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if userResponse.Error.Code != "" && userResponse.Error.Code != "ok" {
		return nil, fmt.Errorf("tiktok user info error: %s", userResponse.Error.Message)
	}

	return &userResponse, nil
}
