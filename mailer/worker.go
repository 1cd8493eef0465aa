// file: mailer/worker.go

package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"go-blog-api/config"
	"go-blog-api/logger"
	"go-blog-api/model"

	"github.com/hibiken/asynq"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Sender delivers a composed message. *sendgrid.Client satisfies it.
type Sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Worker consumes the mail queue and delivers through SendGrid.
type Worker struct {
	cfg    config.MailConfig
	sender Sender
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(redisOpt asynq.RedisConnOpt, sender Sender, cfg config.MailConfig) *Worker {
	w := &Worker{
		cfg:    cfg,
		sender: sender,
		server: asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: 2,
			Queues:      map[string]int{QueueName: 1},
			Logger:      logger.Log,
		}),
		mux: asynq.NewServeMux(),
	}
	w.mux.HandleFunc(TypeSendMail, w.HandleSendMail)
	return w
}

// Start runs the asynq server in the background.
func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// HandleSendMail delivers one queued task. Malformed payloads are not retried.
func (w *Worker) HandleSendMail(ctx context.Context, t *asynq.Task) error {
	var task model.MailTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		logger.Log.WithError(err).Error("Discarding undecodable mail task")
		return fmt.Errorf("decode mail task: %v: %w", err, asynq.SkipRetry)
	}
	log := logger.Log.WithFields(logrus.Fields{
		"recipient": task.Recipient,
		"kind":      task.Kind,
	})

	message, err := Compose(w.cfg, task)
	if err != nil {
		log.WithError(err).Error("Discarding mail task")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	resp, err := w.sender.Send(message)
	if err != nil {
		log.WithError(err).Error("Failed to send email via SendGrid")
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		log.WithField("status", resp.StatusCode).Error("SendGrid rejected email")
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	log.Info("Email sent")
	return nil
}
