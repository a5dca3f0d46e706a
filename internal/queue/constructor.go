package queue

import (
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/service"
)

type Queue struct {
	pr repository.PostRepository
	ac repository.SocialAccountRepository
	ma repository.MediaAssetRepository
	pm repository.PostMediaRepository
	ar repository.ActivityRepository
	x  service.XService
	pi service.PinterestService
	tt service.TiktokService
}

func NewQueue(
	pr repository.PostRepository,
	ac repository.SocialAccountRepository,
	ma repository.MediaAssetRepository,
	pm repository.PostMediaRepository,
	ar repository.ActivityRepository,
	x service.XService,
	pi service.PinterestService,
	tt service.TiktokService) *Queue {
	return &Queue{
		pr: pr,
		ac: ac,
		ma: ma,
		pm: pm,
		ar: ar,
		x:  x,
		pi: pi,
		tt: tt,
	}
}

const TaskTypeSchedulePost = "schedule:post"

type SchedulePostPayload struct {
	PostID int64 `json:"post_id"`
}
