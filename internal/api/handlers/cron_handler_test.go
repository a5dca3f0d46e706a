package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/postloop/postloop-api/configs"
	"github.com/postloop/postloop-api/internal/publisher"
)

type stubRunner struct {
	summary *publisher.Summary
	err     error
	calls   int
}

func (s *stubRunner) Run(ctx context.Context, now time.Time) (*publisher.Summary, error) {
	s.calls++
	return s.summary, s.err
}

func newCronApp(cfg config.Config, runner *stubRunner) *fiber.App {
	app := fiber.New()
	h := NewCronHandler(cfg, runner)
	app.Get("/cron/publish", h.PublishHandler)
	return app
}

func TestPublishHandlerRequiresSecretInProduction(t *testing.T) {
	runner := &stubRunner{summary: &publisher.Summary{}}
	app := newCronApp(config.Config{Environment: "production", CronSecret: "topsecret"}, runner)

	req := httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, runner.calls)

	req = httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, runner.calls)
}

func TestPublishHandlerReturnsSummary(t *testing.T) {
	runner := &stubRunner{
		summary: &publisher.Summary{
			Processed: 2,
			Details: []publisher.SlotResult{
				{SlotID: 1, Outcome: publisher.OutcomePublished, PostID: 11},
				{SlotID: 2, Outcome: publisher.OutcomeEmptyLibrary},
			},
		},
	}
	app := newCronApp(config.Config{CronSecret: "topsecret"}, runner)

	req := httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success   bool                   `json:"success"`
		Processed int                    `json:"processed"`
		Details   []publisher.SlotResult `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Processed)
	require.Len(t, body.Details, 2)
	assert.Equal(t, publisher.OutcomePublished, body.Details[0].Outcome)
}

func TestPublishHandlerSkipsAuthOutsideProduction(t *testing.T) {
	runner := &stubRunner{summary: &publisher.Summary{}}
	app := newCronApp(config.Config{Environment: "development"}, runner)

	req := httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, runner.calls)
}

func TestPublishHandlerAllowsBadTokenOutsideProduction(t *testing.T) {
	runner := &stubRunner{summary: &publisher.Summary{}}
	app := newCronApp(config.Config{Environment: "development", CronSecret: "topsecret"}, runner)

	req := httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, runner.calls)
}

func TestPublishHandlerMissingSecretInProduction(t *testing.T) {
	runner := &stubRunner{summary: &publisher.Summary{}}
	app := newCronApp(config.Config{Environment: "production"}, runner)

	req := httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, runner.calls)
}

func TestPublishHandlerReportsRunError(t *testing.T) {
	runner := &stubRunner{err: errors.New("db is down")}
	app := newCronApp(config.Config{CronSecret: "topsecret"}, runner)

	req := httptest.NewRequest(http.MethodGet, "/cron/publish", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
