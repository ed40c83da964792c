// seed_admin crea el usuario administrador inicial de la plataforma.
//
// Uso: go run ./cmd/seed_admin -username admin -email admin@example.com -password secreto
// Es idempotente: si ya existe un usuario con ese email no hace nada.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/infrastructure/postgres"
	"github.com/jhoicas/registro-api/pkg/config"
)

func main() {
	username := flag.String("username", "admin", "nombre de usuario del administrador")
	email := flag.String("email", "", "email del administrador (requerido)")
	password := flag.String("password", "", "password en claro (requerido)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "se requieren -email y -password")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(cfg.DB.ConnectionString(), cfg.DB.MigrationsDir); err != nil {
		fmt.Fprintf(os.Stderr, "migraciones: %v\n", err)
		os.Exit(1)
	}

	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)

	existing, err := users.GetByEmail(*email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "buscar administrador: %v\n", err)
		os.Exit(1)
	}
	if existing != nil {
		fmt.Printf("el usuario %s ya existe (id=%d), nada que hacer\n", *email, existing.ID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashear password: %v\n", err)
		os.Exit(1)
	}

	admin := &entity.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		TokenVersion: 1,
	}
	if err := users.Create(admin); err != nil {
		fmt.Fprintf(os.Stderr, "crear administrador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("administrador %s creado (id=%d)\n", *email, admin.ID)
}
