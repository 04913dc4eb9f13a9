package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/internal/service/notification"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn
	GW       gateway.Gateway
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startNotificationWorker(p.NC, p.GW, p.NotifSvc)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

func loadConsultation(ctx context.Context, gw gateway.Gateway, id string) (*model.Consultation, bool) {
	var rows []model.Consultation
	err := gw.Select(ctx, gateway.Query{
		Collection: model.CollectionConsultations,
		Filters:    []gateway.Filter{gateway.Eq("id", id)},
		Limit:      1,
	}, &rows)
	if err != nil || len(rows) == 0 {
		slog.Warn("notification_worker: consultation not found", "id", id, "err", err)
		return nil, false
	}
	return &rows[0], true
}

func startNotificationWorker(nc *nats.Conn, gw gateway.Gateway, notifSvc notification.Service) {
	// Reply notifications: when a counselor answers, tell the student. The
	// student's own messages create no row; counselors work from the queue.
	_, err := nc.Subscribe("konsel.consultation.message.*", func(msg *nats.Msg) {
		parts := strings.Split(msg.Subject, ".")
		if len(parts) < 4 {
			return
		}
		consultationID := parts[3]
		messageID := strings.TrimSpace(string(msg.Data))

		ctx := context.Background()

		cons, found := loadConsultation(ctx, gw, consultationID)
		if !found {
			return
		}

		var msgs []model.ConsultationMessage
		err := gw.Select(ctx, gateway.Query{
			Collection: model.CollectionConsultationMessages,
			Filters:    []gateway.Filter{gateway.Eq("id", messageID)},
			Limit:      1,
		}, &msgs)
		if err != nil || len(msgs) == 0 {
			slog.Warn("notification_worker: message not found", "id", messageID, "err", err)
			return
		}
		if msgs[0].SenderID == cons.StudentID {
			return
		}

		payload, _ := json.Marshal(map[string]string{"consultation_id": cons.ID})
		_, err = notifSvc.Create(ctx, notification.CreateInput{
			UserID: cons.StudentID,
			Type:   "consultation_message",
			Title:  "Balasan baru pada konsultasi Anda",
			Data:   string(payload),
		})
		if err != nil {
			slog.Warn("notification_worker: create notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe consultation.message failed", "err", err)
	}

	// Resolution notifications
	_, err = nc.Subscribe("konsel.consultation.resolved.*", func(msg *nats.Msg) {
		consultationID := strings.TrimSpace(string(msg.Data))
		if consultationID == "" {
			return
		}

		ctx := context.Background()

		cons, found := loadConsultation(ctx, gw, consultationID)
		if !found {
			return
		}

		payload, _ := json.Marshal(map[string]string{"consultation_id": cons.ID})
		_, err = notifSvc.Create(ctx, notification.CreateInput{
			UserID: cons.StudentID,
			Type:   "consultation_resolved",
			Title:  "Konsultasi Anda telah diselesaikan",
			Data:   string(payload),
		})
		if err != nil {
			slog.Warn("notification_worker: create resolved notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe consultation.resolved failed", "err", err)
	}

	slog.Info("notification_worker: started")
}
