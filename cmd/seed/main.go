// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the demo account already exists.
package main

import (
	"context"
	"log"
	"time"

	"medrekk/internal/account"
	accountrepo "medrekk/internal/account/repository"
	"medrekk/internal/config"
	"medrekk/internal/db"
	"medrekk/internal/patient"
	"medrekk/internal/patient/domain"
	patientrepo "medrekk/internal/patient/repository"
	"medrekk/internal/security"
)

const (
	demoAccountName = "Demo Clinic"
	demoUsername    = "demo@example.com"
	demoPassword    = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts := accountrepo.NewPostgresRepository(pool)
	accountSvc := account.NewService(accounts, security.NewHasher(cfg.BcryptCost), nil)

	existing, err := accounts.GetBySubdomain(ctx, "demo-clinic")
	if err != nil {
		log.Fatalf("seed: lookup demo account: %v", err)
	}
	if existing != nil {
		log.Printf("seed: account %q already exists, nothing to do", demoAccountName)
		return
	}

	a, err := accountSvc.Create(ctx, demoAccountName, demoUsername, demoPassword)
	if err != nil {
		log.Fatalf("seed: create account: %v", err)
	}
	log.Printf("seed: created account %s (%s) with owner %s", a.Name, a.Subdomain, demoUsername)

	patientSvc := patient.NewService(patientrepo.NewPostgresRepository(pool))
	rec, err := patientSvc.CreateRecord(ctx, a.ID, &domain.PatientRecord{
		LastName:        "Dela Cruz",
		FirstName:       "Juan",
		Gender:          "male",
		AddressCountry:  "PH",
		AddressProvince: "Cebu",
		AddressCity:     "Cebu City",
		AddressBarangay: "Lahug",
		AddressLine1:    "123 Sample Street",
		Religion:        "none",
	})
	if err != nil {
		log.Fatalf("seed: create patient record: %v", err)
	}
	if _, err := patientSvc.AddBloodPressure(ctx, a.ID, rec.ID, 120, 80); err != nil {
		log.Fatalf("seed: add blood pressure: %v", err)
	}
	if _, err := patientSvc.AddHeartRate(ctx, a.ID, rec.ID, 72); err != nil {
		log.Fatalf("seed: add heart rate: %v", err)
	}
	if _, err := patientSvc.AddBodyTemperature(ctx, a.ID, rec.ID, 36.7); err != nil {
		log.Fatalf("seed: add body temperature: %v", err)
	}
	log.Printf("seed: created patient record %s with sample vitals", rec.ID)
}
