package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/outreach/pkg/campaign"
	"github.com/dmitrymomot/outreach/pkg/history"
	"github.com/dmitrymomot/outreach/pkg/logger"
)

type senderRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Title   string `json:"title" validate:"required,max=200"`
	Contact string `json:"contact" validate:"required,max=200"`
}

type campaignEmail struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"max=998"`
	Body      string `json:"body" validate:"required"`
	ImageKey  string `json:"image_key" validate:"max=512"`
}

type scheduleRequest struct {
	Start       time.Time       `json:"start" validate:"required"`
	End         time.Time       `json:"end" validate:"required"`
	Sender      senderRequest   `json:"sender"`
	Emails      []campaignEmail `json:"emails" validate:"required,min=1,max=100,dive"`
	TotalEmails int             `json:"total_emails"`
}

type scheduledCampaign struct {
	CampaignID string          `json:"campaign_id"`
	Recipient  string          `json:"recipient"`
	Units      []campaign.Unit `json:"units"`
}

// scheduleCampaigns starts one campaign per email. Each campaign sends the
// same email total_emails times spread over [start, end]. Either every
// campaign is scheduled or none is.
func (a *API) scheduleCampaigns(w http.ResponseWriter, r *http.Request) error {
	var req scheduleRequest
	if err := a.decode(w, r, &req); err != nil {
		return err
	}
	if req.TotalEmails > a.maxEmails {
		return errValidation([]string{fmt.Sprintf("total_emails must be at most %d", a.maxEmails)})
	}

	ctx := r.Context()
	scheduled := make([]scheduledCampaign, 0, len(req.Emails))

	for _, e := range req.Emails {
		campaignID := uuid.NewString()
		payload := campaign.Payload{
			Recipient:     e.Recipient,
			Subject:       e.Subject,
			Body:          e.Body,
			ImageKey:      e.ImageKey,
			SenderName:    req.Sender.Name,
			SenderTitle:   req.Sender.Title,
			SenderContact: req.Sender.Contact,
		}

		units, err := a.deps.Scheduler.ScheduleBatch(logger.WithCampaignID(ctx, campaignID),
			a.deps.Deliverer.Deliver(campaignID),
			req.Start, req.End, req.TotalEmails, campaignID, payload)
		if err != nil {
			for _, c := range scheduled {
				a.deps.Scheduler.CancelCampaign(ctx, c.CampaignID)
			}
			return err
		}

		scheduled = append(scheduled, scheduledCampaign{
			CampaignID: campaignID,
			Recipient:  e.Recipient,
			Units:      units,
		})
	}

	writeJSON(w, http.StatusCreated, map[string]any{"campaigns": scheduled})
	return nil
}

func (a *API) listCampaigns(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": a.deps.Scheduler.Campaigns()})
	return nil
}

func (a *API) listUnits(w http.ResponseWriter, _ *http.Request) error {
	units := a.deps.Scheduler.Units()
	if units == nil {
		units = []campaign.Unit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"units": units})
	return nil
}

// cancelCampaign answers 200 with the number of stopped sends, zero for
// unknown or finished campaigns.
func (a *API) cancelCampaign(w http.ResponseWriter, r *http.Request) error {
	campaignID := chi.URLParam(r, "id")
	ctx := logger.WithCampaignID(r.Context(), campaignID)

	n := a.deps.Scheduler.CancelCampaign(ctx, campaignID)
	a.logger.InfoContext(ctx, "campaign cancel requested", slog.Int("cancelled", n))

	writeJSON(w, http.StatusOK, map[string]int{"cancelled": n})
	return nil
}

func (a *API) campaignHistory(w http.ResponseWriter, r *http.Request) error {
	if a.deps.History == nil {
		return errNotFound("Delivery history is not enabled")
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errBadRequest("limit must be a non-negative integer", err)
		}
		limit = n
	}

	records, err := a.deps.History.List(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []history.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
	return nil
}
