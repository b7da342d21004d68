package infra

import (
	"fmt"
	"net/smtp"
	"strings"

	"avicola/internal/config"
	"avicola/internal/dto"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer sends email jobs through the configured SMTP relay, behind a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig("smtp"))
	}
	from := cfg.SMTPUser
	if cfg.NombreEmpresa != "" && from != "" {
		from = fmt.Sprintf("%s <%s>", cfg.NombreEmpresa, cfg.SMTPUser)
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     from,
		cb:       cb,
	}
}

// Breaker exposes the breaker state for /health.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// Send delivers msg. Without SMTP_HOST the message is only logged, which keeps
// development setups working without a relay.
func (m *Mailer) Send(msg dto.EmailMensaje) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mailer: mensaje sin destinatarios")
	}
	if m.host == "" {
		log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mailer: SMTP no configurado, correo descartado")
		return nil
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)
	if msg.Adjunto != "" {
		if _, err := e.AttachFile(msg.Adjunto); err != nil {
			return fmt.Errorf("mailer: adjuntar %s: %w", msg.Adjunto, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error {
		if err := e.Send(m.addr, auth); err != nil {
			return fmt.Errorf("mailer: enviar a %s: %w", strings.Join(msg.To, ","), err)
		}
		return nil
	})
}
