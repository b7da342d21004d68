// Tareas de mantenimiento pensadas para cron.
//
//	mantenimiento recalcular-estados
//	mantenimiento crear-caja-hoy
//	mantenimiento verificar-caja
//	mantenimiento listar-dlq
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"avicola/internal/config"
	"avicola/internal/infra"
	"avicola/internal/metrics"
	"avicola/internal/router"
	"avicola/internal/worker"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sistema attributes automated openings to no human user.
var sistema = uuid.Nil

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: mantenimiento recalcular-estados | crear-caja-hoy | verificar-caja | listar-dlq")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	svc := router.NuevosServicios(router.Deps{
		Config:  cfg,
		DB:      db,
		Metrics: metrics.New(prometheus.NewRegistry()),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var out any
	switch os.Args[1] {
	case "recalcular-estados":
		out, err = svc.Facturas.RecalcularEstados(ctx)
	case "crear-caja-hoy":
		out, err = svc.Caja.AbrirDesdeUltimoCierre(ctx, sistema, time.Now().UTC())
	case "verificar-caja":
		out, err = svc.Caja.Verificar(ctx, time.Now().UTC())
	case "listar-dlq":
		out, err = listarDLQ(ctx, cfg.RedisURL)
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("comando", os.Args[1]).Msg("falló")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// listarDLQ dumps the newest dead-lettered email jobs.
func listarDLQ(ctx context.Context, redisURL string) ([]worker.DLQEntry, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL no configurado")
	}
	rdb, err := infra.NewRedis(redisURL)
	if err != nil {
		return nil, err
	}
	defer rdb.Close()
	return worker.ListDLQ(ctx, rdb, worker.QueueEmail, 100)
}
