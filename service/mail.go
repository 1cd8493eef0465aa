package service

import "go-blog-api/model"

// MailDispatcher hands a message off for out-of-band delivery.
// Dispatch must return without waiting for delivery; failures are the dispatcher's to log.
type MailDispatcher interface {
	Dispatch(task model.MailTask)
}
