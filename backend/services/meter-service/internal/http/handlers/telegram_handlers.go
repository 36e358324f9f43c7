package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/observability"
	"solarmon/backend/services/meter-service/internal/service"
	"solarmon/backend/services/meter-service/internal/telegram"
)

// SecretTokenHeader is set by Telegram when the webhook has a secret token.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// ReadingIngester stores a reading and summarises its day.
type ReadingIngester interface {
	Ingest(ctx context.Context, input service.ReadingInput) (*service.DailySummary, error)
}

// MessageSender replies to a chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramSettings configures the webhook.
type TelegramSettings struct {
	ChatID         int64
	ChatConfigured bool
	SecretToken    string
	Location       *time.Location
}

// TelegramHandler receives bot updates carrying meter readings.
type TelegramHandler struct {
	readings ReadingIngester
	sender   MessageSender
	settings TelegramSettings
	now      func() time.Time
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewTelegramHandler builds webhook handler.
func NewTelegramHandler(readings ReadingIngester, sender MessageSender, settings TelegramSettings, metrics *observability.Metrics, logger *zap.Logger) *TelegramHandler {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &TelegramHandler{
		readings: readings,
		sender:   sender,
		settings: settings,
		now:      time.Now,
		metrics:  metrics,
		logger:   logger,
	}
}

// Webhook handles POST /telegram/webhook.
func (h *TelegramHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.settings.ChatConfigured {
		h.logger.Error("telegram chat id not configured")
		h.metrics.TelegramUpdate("misconfigured")
		writeError(w, http.StatusInternalServerError, "server configuration error")
		return
	}

	if h.settings.SecretToken != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.settings.SecretToken)) != 1 {
			h.metrics.TelegramUpdate("unauthorized")
			writeError(w, http.StatusForbidden, "unauthorized")
			return
		}
	}

	var update telegram.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&update); err != nil {
		h.metrics.TelegramUpdate("malformed")
		writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	chatID := update.ChatID()
	if chatID == 0 || chatID != h.settings.ChatID {
		h.logger.Warn("unauthorized telegram chat", zap.Int64("chat_id", chatID))
		h.metrics.TelegramUpdate("unauthorized")
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	text := update.Text()
	if text == "" {
		h.metrics.TelegramUpdate("ignored")
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	ctx := r.Context()
	today := models.DateOf(h.now(), h.settings.Location)
	cmd, err := telegram.ParseReading(text, today)
	if err != nil {
		h.logger.Info("rejected telegram message", zap.Error(err))
		h.metrics.TelegramUpdate("rejected")
		h.reply(ctx, chatID, telegram.ReplyForParseError(err))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	summary, err := h.readings.Ingest(ctx, service.ReadingInput{
		Date:     cmd.Date,
		Counters: cmd.Counters,
		Source:   service.SourceTelegram,
	})
	if err != nil {
		h.logger.Error("failed to save telegram reading", zap.Error(err))
		h.metrics.TelegramUpdate("error")
		h.reply(ctx, chatID, telegram.SaveFailedMessage)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	h.metrics.TelegramUpdate("saved")
	h.reply(ctx, chatID, telegram.FormatConfirmation(telegram.Confirmation{
		Date:        models.FormatDate(summary.Reading.Date),
		IsToday:     summary.Reading.Date.Equal(today),
		Delta:       summary.Delta,
		Derived:     summary.Derived,
		Overwritten: summary.Overwritten,
	}))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// reply is best-effort: the update has already been handled.
func (h *TelegramHandler) reply(ctx context.Context, chatID int64, text string) {
	if h.sender == nil {
		return
	}
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Warn("failed to send telegram reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
