package main

import (
	"log"

	"hashbridge/internal/authn"
	"hashbridge/internal/config"
	"hashbridge/internal/db"
	"hashbridge/internal/hashnode"
	"hashbridge/internal/router"
	"hashbridge/internal/services"
	"hashbridge/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	// A missing DATABASE_URL keeps the server up: affected endpoints answer
	// with a configuration error instead.
	var st store.Store
	conn, err := db.Open(cfg.DatabaseURL)
	switch {
	case err == db.ErrNotConfigured:
		log.Println("Warning: DATABASE_URL not set, comment and like endpoints will report a configuration error")
	case err != nil:
		log.Printf("Warning: database unavailable: %v", err)
	default:
		st = store.NewGormStore(conn)
	}

	verifier := authn.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	if !verifier.Configured() {
		log.Println("Warning: Supabase auth not configured, authenticated endpoints will report a configuration error")
	}

	hn := hashnode.NewClient(cfg.HashnodeEndpoint, cfg.HashnodeAuthToken)
	if !hn.Configured() {
		log.Println("Hashnode mirroring disabled: missing HASHNODE_GQL_ENDPOINT or HASHNODE_AUTH_TOKEN")
	}

	deps := router.Deps{Verifier: verifier}
	if st != nil {
		deps.Comments = services.NewCommentService(st, hn)
		deps.Likes = services.NewLikeService(st, hn)
	}

	r := gin.Default()
	router.RegisterRoutes(r, deps)

	log.Printf("hashbridge server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
