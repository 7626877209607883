package worker

import (
	"context"

	"github.com/sodiqa/dropwallet/internal/helper"
	"github.com/sodiqa/dropwallet/internal/smtp"
	"github.com/sodiqa/dropwallet/internal/stream"
	"github.com/sodiqa/dropwallet/internal/telegram"
)

type Worker struct {
	KafkaStream       *stream.KafkaStream
	Notifier          telegram.Notifier
	Mailer            smtp.MailerInterface
	Helper            *helper.HelperRepository
	Ctx               context.Context
	NotificationEmail string
	BaseURL           string
}

const (
	// payoutAlertGroupID is used for workers that take action whenever a new withdrawal request was created
	payoutAlertGroupID = "withdrawal-requested-group"

	// resolutionNoticeGroupID is used for workers that take action when an admin has settled a withdrawal request
	resolutionNoticeGroupID = "withdrawal-resolved-group"
)

// Our workers typically need access to the event stream and the outbound
// notification channels; worker-specific dependencies can be passed as
// arguments to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream:       wk.KafkaStream,
		Notifier:          wk.Notifier,
		Mailer:            wk.Mailer,
		Helper:            wk.Helper,
		Ctx:               wk.Ctx,
		NotificationEmail: wk.NotificationEmail,
		BaseURL:           wk.BaseURL,
	}
}
