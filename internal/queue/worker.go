package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/transfer"
)

func (j *Queue) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost pushes a scheduled post to every platform it targets. Failures
// are recorded on the post rather than returned, so asynq never retries a
// task that already reached some of the platforms.
func (j *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		slog.Info("scheduled post no longer exists", "post_id", postID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		slog.Info("post is no longer scheduled, skipping", "post_id", postID, "status", post.Status)
		return nil
	}

	imageURLs, err := j.imageURLs(ctx, postID)
	if err != nil {
		slog.Error("loading post media", "post_id", postID, "error", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failures  []string
		semaphore = make(chan struct{}, 10)
	)

	for _, platform := range post.Platforms {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(platform string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.publishToPlatform(ctx, post, platform, imageURLs); err != nil {
				slog.Error("publishing post", "post_id", post.ID, "platform", platform, "error", err)
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", platform, err))
				mu.Unlock()
			}
		}(platform)
	}

	wg.Wait()

	activity := &models.Activity{
		UserID: post.UserID,
		PostID: sql.NullInt64{Int64: post.ID, Valid: true},
	}

	if len(failures) > 0 {
		if err := j.pr.UpdatePostStatus(ctx, models.PostStatusFailed, post.ID); err != nil {
			slog.Error("updating post status", "post_id", post.ID, "error", err)
		}
		activity.Type = models.ActivityTypeFailed
		activity.Message = "Failed to publish scheduled post: " + strings.Join(failures, "; ")
	} else {
		if err := j.pr.UpdatePostStatus(ctx, models.PostStatusPublished, post.ID); err != nil {
			slog.Error("updating post status", "post_id", post.ID, "error", err)
		}
		activity.Type = models.ActivityTypePublished
		activity.Message = "Published scheduled post"
	}

	if _, err := j.ar.Create(ctx, activity); err != nil {
		slog.Error("recording publish activity", "post_id", post.ID, "error", err)
	}

	return nil
}

func (j *Queue) publishToPlatform(ctx context.Context, post *models.Post, platform string, imageURLs []string) error {
	acc, err := j.ac.GetByUserAndPlatform(ctx, post.UserID, platform)
	if err != nil {
		return err
	}
	if acc == nil {
		return errors.New("account is not connected")
	}

	switch platform {
	case models.PlatformX:
		return j.x.PublishText(ctx, acc, post.Content)

	case models.PlatformPinterest:
		if len(imageURLs) == 0 {
			return errors.New("pinterest post requires an image")
		}
		boards, err := j.pi.ListBoards(ctx, post.UserID)
		if err != nil {
			return err
		}
		if len(boards) == 0 {
			return errors.New("no pinterest boards available")
		}
		return j.pi.CreatePin(ctx, acc, &transfer.PinCreation{
			BoardID:     boards[0].ID,
			Description: post.Content,
			MediaSource: transfer.PinMediaSource{
				SourceType: "image_url",
				URL:        imageURLs[0],
			},
		})

	case models.PlatformTiktok:
		return j.tt.PublishPhotos(ctx, acc, post, imageURLs)

	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
}

func (j *Queue) imageURLs(ctx context.Context, postID int64) ([]string, error) {
	media, err := j.pm.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(media))
	for _, pm := range media {
		asset, err := j.ma.GetByID(ctx, pm.AssetID)
		if err != nil {
			return urls, err
		}
		if asset == nil {
			continue
		}
		urls = append(urls, asset.FileURL)
	}

	return urls, nil
}
