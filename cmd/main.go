// Package main is the entry point for the binpack-service application.
//
// @title           Bin Packing Service API
// @version         1.0.0
// @description     Greedy 3D packing of items into a single container.
//
//	Items are placed level by level, each one at the lowest, then
//	deepest, then leftmost free corner it fits in.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/binpack-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @tag.name        Allocations
// @tag.description Single-container packing, stored results and exports
//
// @tag.name        Sharing
// @tag.description Signed read-only links to allocations
//
// @tag.name        Profiles
// @tag.description Named container presets
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/guttosm/binpack-service/docs" // swagger docs

	"github.com/guttosm/binpack-service/config"
	"github.com/guttosm/binpack-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port, app.WithShutdownHook(application.Close))

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
