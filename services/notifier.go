package services

import (
	"context"
	"log/slog"

	"github.com/Hariom00027/hackathon-system/live"
)

// Типы событий жизненного цикла заявки.
const (
	EventApplicationCreated  = "APPLICATION_CREATED"
	EventPhaseSubmitted      = "PHASE_SUBMITTED"
	EventPhaseReviewed       = "PHASE_REVIEWED"
	EventReuploadRequested   = "REUPLOAD_REQUESTED"
	EventApplicationRejected = "APPLICATION_REJECTED"
	EventRankAssigned        = "RANK_ASSIGNED"
	EventResultsFinalized    = "RESULTS_FINALIZED"
	EventShowcasePublished   = "SHOWCASE_PUBLISHED"
)

// ApplicationEvent — уведомление об изменении состояния заявки.
type ApplicationEvent struct {
	Type           string  `json:"type"`
	HackathonID    int     `json:"hackathon_id"`
	HackathonTitle string  `json:"hackathon_title"`
	ApplicationID  int     `json:"application_id"`
	PhaseID        *int    `json:"phase_id,omitempty"`
	Status         string  `json:"status,omitempty"`
	Message        string  `json:"message,omitempty"`
	Remarks        string  `json:"remarks,omitempty"`
	RecipientName  string  `json:"-"`
	RecipientEmail string  `json:"-"`
}

// Notifier — приёмник уведомлений о смене состояний. Доставка
// best-effort: реализация никогда не блокирует и не проваливает
// основной переход состояния.
type Notifier interface {
	Notify(ctx context.Context, event ApplicationEvent)
}

type compositeNotifier struct {
	hub    *live.Hub
	email  EmailSender
	logger *slog.Logger
}

// NewNotifier собирает уведомитель: websocket-рассылка в комнату
// хакатона плюс письмо заявителю. Ошибки логируются, не всплывают.
func NewNotifier(hub *live.Hub, email EmailSender, logger *slog.Logger) Notifier {
	return &compositeNotifier{hub: hub, email: email, logger: logger}
}

func (n *compositeNotifier) Notify(ctx context.Context, event ApplicationEvent) {
	if n.hub != nil {
		n.hub.BroadcastToRoom(live.HackathonRoom(event.HackathonID), live.Event{
			Type:    event.Type,
			Payload: event,
		})
	}

	if n.email == nil || event.RecipientEmail == "" {
		return
	}

	// Письмо уходит в фоне: state machine не ждёт SMTP.
	go func(event ApplicationEvent) {
		body, err := RenderStatusEmail(event.RecipientName, event.Message, event.HackathonTitle, event.Remarks)
		if err != nil {
			n.logger.WarnContext(ctx, "failed to render notification email",
				slog.String("event", event.Type),
				slog.Int("application_id", event.ApplicationID),
				slog.Any("error", err))
			return
		}
		subject := "Hackathon update: " + event.HackathonTitle
		if err := n.email.SendEmail([]string{event.RecipientEmail}, subject, body); err != nil {
			n.logger.WarnContext(ctx, "failed to send notification email",
				slog.String("event", event.Type),
				slog.Int("application_id", event.ApplicationID),
				slog.Any("error", err))
		}
	}(event)
}

// NopNotifier — заглушка для окружений без SMTP/websocket.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ApplicationEvent) {}
