// file: mailer/dispatcher.go

package mailer

import (
	"context"
	"encoding/json"
	"go-blog-api/logger"
	"go-blog-api/model"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const (
	TypeSendMail = "mail:send"
	QueueName    = "mail"

	maxRetry       = 3
	enqueueTimeout = 5 * time.Second
)

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands mail tasks to the asynq queue. Enqueueing happens on
// its own goroutine so a slow Redis never delays the HTTP response.
type QueueDispatcher struct {
	client Enqueuer
}

func NewQueueDispatcher(client Enqueuer) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

func (d *QueueDispatcher) Dispatch(task model.MailTask) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		_ = d.Enqueue(ctx, task)
	}()
}

// Enqueue serializes task and pushes it onto the mail queue.
func (d *QueueDispatcher) Enqueue(ctx context.Context, task model.MailTask) error {
	log := logger.Log.WithFields(logrus.Fields{
		"recipient": task.Recipient,
		"kind":      task.Kind,
	})

	payload, err := json.Marshal(task)
	if err != nil {
		log.WithError(err).Error("Failed to encode mail task")
		return err
	}
	info, err := d.client.EnqueueContext(ctx, asynq.NewTask(TypeSendMail, payload),
		asynq.Queue(QueueName), asynq.MaxRetry(maxRetry))
	if err != nil {
		log.WithError(err).Error("Failed to enqueue mail task")
		return err
	}
	log.WithField("task_id", info.ID).Info("Mail task enqueued")
	return nil
}

// LogDispatcher writes the redemption link to the log instead of sending mail.
// Used in development when no SendGrid key is configured.
type LogDispatcher struct {
	baseURL string
}

func NewLogDispatcher(baseURL string) *LogDispatcher {
	return &LogDispatcher{baseURL: baseURL}
}

func (d *LogDispatcher) Dispatch(task model.MailTask) {
	log := logger.Log.WithFields(logrus.Fields{
		"recipient": task.Recipient,
		"kind":      task.Kind,
	})
	link, err := Link(d.baseURL, task)
	if err != nil {
		log.WithError(err).Error("Dropping mail task")
		return
	}
	log.WithField("link", link).Info("Mail delivery disabled, logging link instead")
}
