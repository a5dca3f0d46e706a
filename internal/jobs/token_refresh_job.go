package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/service"
)

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	x  service.XService
	pi service.PinterestService
	tt service.TiktokService
}

func NewTokenRefreshJob(
	sr repository.SocialAccountRepository,
	x service.XService,
	pi service.PinterestService,
	tt service.TiktokService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		x:  x,
		pi: pi,
		tt: tt,
	}
}

// RefreshTokens renews every access token expiring within the next half hour.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			var err error
			switch acc.Platform {
			case models.PlatformX:
				err = c.x.RefreshXToken(ctx, acc.ID, acc.RefreshToken)
			case models.PlatformPinterest:
				err = c.pi.RefreshPinterestToken(ctx, acc.ID, acc.RefreshToken)
			case models.PlatformTiktok:
				err = c.tt.RefreshTiktokToken(ctx, acc.ID, acc.RefreshToken)
			}
			if err != nil {
				slog.Error("refreshing token", "platform", acc.Platform, "account_id", acc.ID, "error", err)
			}
		}(acc)
	}

	wg.Wait()
}
