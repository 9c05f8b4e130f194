package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/doseminder/doseminder-api/api/handlers"

	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database, coordinator and router
		log.Fatal(err)
	}

	a.Scheduler.Start()
	defer a.Scheduler.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("doseminder-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
