package main // Entry point package

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-listing-api/internal/config"
	"github.com/iliyamo/car-listing-api/internal/database"
	"github.com/iliyamo/car-listing-api/internal/handler"
	"github.com/iliyamo/car-listing-api/internal/repository"
	"github.com/iliyamo/car-listing-api/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	carH := handler.NewCarHandler(cars, cfg.UploadDir)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, cfg, authH, carH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBPath)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
