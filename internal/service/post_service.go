package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, files []*multipart.FileHeader) (int64, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	ListByLibrary(ctx context.Context, userID, libraryID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	UpdateContent(ctx context.Context, userID, postID int64, content string) error
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db *sql.DB
	pr repository.PostRepository
	lr repository.LibraryRepository
	ma repository.MediaAssetRepository
	pm repository.PostMediaRepository
	r2 R2Service
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	lr repository.LibraryRepository,
	ma repository.MediaAssetRepository,
	pm repository.PostMediaRepository,
	r2 R2Service) PostService {
	return &postService{
		db: db,
		pr: pr,
		lr: lr,
		ma: ma,
		pm: pm,
		r2: r2,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, files []*multipart.FileHeader) (int64, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, 0, err
	}
	if pc.Content == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return 0, 0, err
	}

	post := models.Post{
		UserID:    userID,
		Content:   pc.Content,
		Platforms: pc.Platforms,
	}

	switch pc.Status {
	case models.PostStatusDraft, "":
		post.Status = models.PostStatusDraft
	case models.PostStatusScheduled:
		post.Status = models.PostStatusScheduled
	default:
		err := fmt.Errorf("status %q cannot be set on creation", pc.Status)
		slog.Info(err.Error())
		return 0, 0, err
	}

	if pc.LibraryID != 0 {
		isValid, err := s.lr.CheckByUserID(ctx, pc.LibraryID, userID)
		if err != nil {
			return 0, 0, err
		}
		if !isValid {
			err = errors.New("Library doesn't exist")
			slog.Info(err.Error())
			return 0, 0, err
		}
		post.LibraryID = sql.NullInt64{Int64: pc.LibraryID, Valid: true}
	}

	var delay time.Duration
	if post.Status == models.PostStatusScheduled {
		if len(pc.Platforms) == 0 {
			err := errors.New("no platforms selected for scheduled post")
			slog.Info(err.Error())
			return 0, 0, err
		}

		scheduledAt, err := time.Parse("2006-01-02T15:04", pc.ScheduledAt)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Error(err.Error())
			return 0, 0, err
		}
		post.ScheduledAt = sql.NullTime{Time: scheduledAt, Valid: true}

		delay = time.Until(scheduledAt)
		if delay < 0 {
			delay = 0
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return 0, 0, fmt.Errorf("error creating post: %w", err)
	}

	if err = s.processFiles(ctx, tx, userID, postID, files); err != nil {
		return 0, 0, fmt.Errorf("error processing files: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return postID, delay, nil
}

func (s *postService) processFiles(ctx context.Context, tx *sql.Tx, userID, postID int64, files []*multipart.FileHeader) error {
	allowedTypes := map[string]struct{}{
		"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {},
	}

	for i, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer fileContent.Close()

		fileBytes, err := io.ReadAll(fileContent)
		if err != nil {
			return fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return fmt.Errorf("unsupported file type: %w", err)
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}

		assetID, err := s.saveFile(ctx, tx, userID, fileType.MIME.Value, fileBytes)
		if err != nil {
			return fmt.Errorf("error uploading file: %w", err)
		}

		postMedia := models.PostMedia{
			PostID:       postID,
			AssetID:      assetID,
			DisplayOrder: i,
		}
		if err := s.pm.Create(ctx, tx, &postMedia); err != nil {
			return fmt.Errorf("error saving media file: %w", err)
		}
	}
	return nil
}

func (s *postService) saveFile(ctx context.Context, tx *sql.Tx, userID int64, fileType string, file []byte) (int64, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	if err = s.r2.Upload(ctx, id, file, fileType); err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	ma := models.MediaAsset{
		UserID:   userID,
		FileName: id,
		FileType: fileType,
		FileSize: int64(len(file)),
		FileURL:  s.r2.PublicURL(id),
	}

	assetID, err := s.ma.Create(ctx, tx, &ma)
	if err != nil {
		return 0, err
	}

	return assetID, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}
	return posts, nil
}

func (s *postService) ListByLibrary(ctx context.Context, userID, libraryID int64) ([]*models.Post, error) {
	isValid, err := s.lr.CheckByUserID(ctx, libraryID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("Library doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := s.pr.GetByLibraryID(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}

	return post, nil
}

func (s *postService) UpdateContent(ctx context.Context, userID, postID int64, content string) error {
	if content == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return err
	}

	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return err
	}

	if err := s.pr.UpdateContent(ctx, postID, content); err != nil {
		return fmt.Errorf("Error updating post")
	}
	return nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("Error removing post")
	}

	return nil
}

func (s *postService) checkOwnership(ctx context.Context, userID, postID int64) error {
	if userID == 0 {
		err := errors.New("User is not valid")
		slog.Info(err.Error())
		return err
	}

	if postID == 0 {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return nil
}
