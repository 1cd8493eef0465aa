// file: model/mail.go

package model

// MailKind selects the template used for an outbound message.
type MailKind string

const (
	MailVerify        MailKind = "verify"
	MailPasswordReset MailKind = "password-reset"
)

// MailTask is handed to the mail dispatcher for out-of-band delivery.
type MailTask struct {
	Recipient string   `json:"recipient"`
	Username  string   `json:"username"`
	Kind      MailKind `json:"kind"`
	Token     string   `json:"token"`
}
