package mailer

import (
	"strings"
	"testing"

	"go-blog-api/config"
	"go-blog-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMailConfig = config.MailConfig{
	FromAddress:   "noreply@blog.example",
	FromName:      "Blog API",
	PublicBaseURL: "https://blog.example",
}

func TestLink(t *testing.T) {
	link, err := Link("https://blog.example", model.MailTask{Kind: model.MailVerify, Token: "a.b+c"})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example/api/auth/verify?token=a.b%2Bc", link)

	link, err = Link("https://blog.example", model.MailTask{Kind: model.MailPasswordReset, Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example/api/auth/password-reset?token=tok", link)

	_, err = Link("https://blog.example", model.MailTask{Kind: "newsletter"})
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	task := model.MailTask{
		Recipient: "alice@example.com",
		Username:  "<alice>",
		Kind:      model.MailVerify,
		Token:     "tok",
	}

	message, err := Compose(testMailConfig, task)
	require.NoError(t, err)

	assert.Equal(t, "Confirm your email address", message.Subject)
	assert.Equal(t, "noreply@blog.example", message.From.Address)
	require.Len(t, message.Personalizations, 1)
	assert.Equal(t, "alice@example.com", message.Personalizations[0].To[0].Address)
	assert.Nil(t, message.MailSettings)

	require.Len(t, message.Content, 2)
	assert.Contains(t, message.Content[0].Value, "https://blog.example/api/auth/verify?token=tok")
	assert.Contains(t, message.Content[1].Value, "&lt;alice&gt;")
	assert.False(t, strings.Contains(message.Content[1].Value, "<alice>"))

	t.Run("sandbox mode", func(t *testing.T) {
		cfg := testMailConfig
		cfg.SandboxMode = true
		message, err := Compose(cfg, task)
		require.NoError(t, err)
		require.NotNil(t, message.MailSettings)
		require.NotNil(t, message.MailSettings.SandboxMode)
		assert.True(t, *message.MailSettings.SandboxMode.Enable)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Compose(testMailConfig, model.MailTask{Kind: "newsletter"})
		assert.Error(t, err)
	})
}
