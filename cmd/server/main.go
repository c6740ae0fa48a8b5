package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	students := handlers.NewStudentHandler(service)
	teachers := handlers.NewTeacherHandler(service)
	admins := handlers.NewAdminHandler(service)
	results := handlers.NewResultHandler(service)
	subjects := handlers.NewSubjectHandler(service)
	classes := handlers.NewClassHandler(service)
	cards := handlers.NewCardHandler(service)

	http.HandleFunc("POST /api/v1/students", students.HandleCreate)
	http.HandleFunc("GET /api/v1/students", students.HandleList)
	http.HandleFunc("GET /api/v1/students/{id}", students.HandleGet)
	http.HandleFunc("PUT /api/v1/students/{id}", students.HandleUpdate)
	http.HandleFunc("DELETE /api/v1/students/{id}", students.HandleDelete)

	http.HandleFunc("POST /api/v1/teachers", teachers.HandleCreate)
	http.HandleFunc("GET /api/v1/teachers", teachers.HandleList)
	http.HandleFunc("GET /api/v1/teachers/{id}", teachers.HandleGet)
	http.HandleFunc("PUT /api/v1/teachers/{id}", teachers.HandleUpdate)
	http.HandleFunc("DELETE /api/v1/teachers/{id}", teachers.HandleDelete)

	http.HandleFunc("POST /api/v1/admins", admins.HandleCreate)
	http.HandleFunc("GET /api/v1/admins", admins.HandleList)
	http.HandleFunc("GET /api/v1/admins/{id}", admins.HandleGet)
	http.HandleFunc("DELETE /api/v1/admins/{id}", admins.HandleDelete)

	http.HandleFunc("POST /api/v1/results", results.HandleCreate)
	http.HandleFunc("GET /api/v1/results", results.HandleList)
	http.HandleFunc("GET /api/v1/results/{id}", results.HandleGet)
	http.HandleFunc("PUT /api/v1/results/{id}", results.HandleUpdate)
	http.HandleFunc("DELETE /api/v1/results/{id}", results.HandleDelete)
	http.HandleFunc("POST /api/v1/results/{id}/publish", results.HandlePublish)
	http.HandleFunc("POST /api/v1/results/check", results.HandleCheck)

	http.HandleFunc("POST /api/v1/subjects", subjects.HandleCreate)
	http.HandleFunc("GET /api/v1/subjects", subjects.HandleList)
	http.HandleFunc("GET /api/v1/subjects/{id}", subjects.HandleGet)
	http.HandleFunc("PUT /api/v1/subjects/{id}", subjects.HandleUpdate)
	http.HandleFunc("DELETE /api/v1/subjects/{id}", subjects.HandleDelete)

	http.HandleFunc("POST /api/v1/classes", classes.HandleCreate)
	http.HandleFunc("GET /api/v1/classes", classes.HandleList)
	http.HandleFunc("GET /api/v1/classes/{id}", classes.HandleGet)
	http.HandleFunc("PUT /api/v1/classes/{id}", classes.HandleUpdate)
	http.HandleFunc("DELETE /api/v1/classes/{id}", classes.HandleDelete)

	http.HandleFunc("POST /api/v1/cards/generate", cards.HandleGenerate)
	http.HandleFunc("GET /api/v1/cards", cards.HandleList)
	http.HandleFunc("DELETE /api/v1/cards/{id}", cards.HandleDelete)
	http.HandleFunc("POST /api/v1/cards/{id}/use", cards.HandleMarkUsed)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting registrar server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Registrar server failed: %v", err)
	}
}
