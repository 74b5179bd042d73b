package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"system-exporter/internal/auth"
	"system-exporter/internal/shared/config"
)

func main() {
	operator := flag.String("operator", "", "operator name stored in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRATION_HOURS)")
	flag.Parse()

	if err := config.Init(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg := config.GlobalConfig
	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Auth.TokenExpiration
	}

	token, err := auth.GenerateJWT(*operator, cfg.Auth.JWTSecret, lifetime)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
	log.Printf("Token for %q expires at %s", *operator, time.Now().Add(lifetime).Format(time.RFC3339))
}
