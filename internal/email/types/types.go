package types

import "time"

// EmailConfig configures the SMTP relay used for verification mail.
type EmailConfig struct {
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	Username  string `mapstructure:"username"` // empty disables SMTP AUTH
	Password  string `mapstructure:"password"`
	TLSPolicy string `mapstructure:"tls_policy"` // mandatory, opportunistic, none
	FromAddr  string `mapstructure:"from_addr"`
	FromName  string `mapstructure:"from_name"`

	// RecipientDomain completes usernames that are not already addresses.
	RecipientDomain string `mapstructure:"recipient_domain"`

	MaxRetries     int           `mapstructure:"max_retries"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	SendTimeout    time.Duration `mapstructure:"send_timeout"`
}

// Email is one outgoing message.
type Email struct {
	To      []string
	Subject string
	Body    string
	Headers map[string]string
}

// EmailStatus reports the outcome of a send.
type EmailStatus struct {
	MessageID string
	SentAt    time.Time
}
