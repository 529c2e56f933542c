package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dispatchboard/frontend/loads"
	"dispatchboard/infrastructure/audit"
	"dispatchboard/infrastructure/docviewer"
	httpserver "dispatchboard/infrastructure/http"
	"dispatchboard/infrastructure/pdflib"
	"dispatchboard/infrastructure/sqlite"
)

func main() {
	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "dispatchboard.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	company := docviewer.CompanyInfo{
		Name:    getenv("COMPANY_NAME", "Dispatch Office"),
		Address: getenv("COMPANY_ADDRESS", ""),
		Phone:   getenv("COMPANY_PHONE", ""),
	}

	library := pdflib.NewLibrary()
	viewer := docviewer.NewService(loads.Source{DB: db}, library, company)
	auditSvc := audit.NewService()

	server := httpserver.NewServer(addr, db, viewer, auditSvc, company)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("dispatchboard listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
