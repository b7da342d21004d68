// Crea o restablece la cuenta de administrador.
// Uso: go run ./cmd/seeduser -username admin -password '...'
package main

import (
	"flag"
	"os"
	"time"

	"avicola/internal/config"
	"avicola/internal/infra"
	"avicola/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "usuario administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña (o SEED_ADMIN_PASSWORD)")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	email := flag.String("email", "", "email para alertas")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("la contraseña debe tener al menos 8 caracteres")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	u := &model.Usuario{
		Username:     *username,
		Nombre:       *nombre,
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	if *email != "" {
		u.Email = email
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "nombre", "email", "rol", "activo", "updated_at"}),
	}).Create(u)
	if res.Error != nil {
		log.Fatal().Err(res.Error).Msg("no se pudo crear el usuario")
	}
	log.Info().Str("username", *username).Msg("usuario administrador creado/actualizado")
}
