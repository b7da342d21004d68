package worker

import (
	"context"
	"encoding/json"
	"errors"

	"avicola/internal/dto"
	"avicola/internal/infra"
	"avicola/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Sender delivers one email. *infra.Mailer implements it.
type Sender interface {
	Send(msg dto.EmailMensaje) error
}

// EmailWorker processes jobs from QueueEmail: alert digests and payment receipts.
type EmailWorker struct {
	sender  Sender
	metrics *metrics.Metrics
}

func NewEmailWorker(sender Sender, m *metrics.Metrics) *EmailWorker {
	return &EmailWorker{sender: sender, metrics: m}
}

// Process returns an error for transient failures so the pool retries; a
// malformed or recipient-less payload is dropped.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var msg dto.EmailMensaje
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Error().Err(err).Msg("email_worker: payload inválido")
		w.metrics.EmailJob("descartado")
		return nil
	}
	if len(msg.To) == 0 {
		log.Warn().Str("subject", msg.Subject).Msg("email_worker: sin destinatarios, descartado")
		w.metrics.EmailJob("descartado")
		return nil
	}

	if err := w.sender.Send(msg); err != nil {
		resultado := "error"
		if errors.Is(err, infra.ErrCircuitOpen) {
			resultado = "circuito_abierto"
		}
		w.metrics.EmailJob(resultado)
		return err
	}
	w.metrics.EmailJob("enviado")
	log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("email_worker: correo enviado")
	return nil
}
