package worker

import (
	"context"
	"time"

	"avicola/internal/dto"

	"github.com/rs/zerolog/log"
)

// Notificador is the slice of service.AlertaService the ticker needs.
type Notificador interface {
	Notificar(ctx context.Context) (*dto.NotificarAlertasResponse, error)
}

// StartAlertasTicker evaluates alerts every interval and records/emails them.
// A zero interval disables it.
func StartAlertasTicker(ctx context.Context, n Notificador, interval time.Duration) {
	if interval <= 0 {
		log.Info().Msg("alertas_ticker: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Msg("alertas_ticker: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alertas_ticker: shutting down")
				return
			case <-ticker.C:
				RunAlertas(ctx, n)
			}
		}
	}()
}

// RunAlertas performs one evaluation; errors are logged, never returned.
func RunAlertas(ctx context.Context, n Notificador) {
	res, err := n.Notificar(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alertas_ticker: notificar falló")
		return
	}
	log.Info().Int("notificaciones", res.Notificaciones).Bool("email", res.EmailEncolado).Msg("alertas_ticker: evaluación completa")
}
