package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	_ "dida/docs"
	dida "dida/internal"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title           Dida API
// @version         1.0
// @description     Daily dashboard aggregation service for personal trackers
// @BasePath        /

var port string

func main() {
	flag.StringVar(&port, "port", ":8080", "HTTP server port (e.g. ':8080')")
	flag.Parse()

	log.SetTimeFormat(time.Stamp)
	log.SetReportCaller(true)

	server, err := dida.NewServer()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	mux := server.SetupRoutes()

	http.Handle("/", mux)
	http.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	log.Info("Server starting on", "port", port)
	log.Fatal(http.ListenAndServe(port, nil))
}
