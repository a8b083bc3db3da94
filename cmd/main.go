package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/fleetware/fleet-mileage/internal/auth"
	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/handlers"
	"github.com/fleetware/fleet-mileage/internal/ingest"
	"github.com/fleetware/fleet-mileage/internal/middleware"
	"github.com/fleetware/fleet-mileage/internal/mileage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "fleet_mileage"
	}
	database := client.Database(dbName)

	trips := &db.MongoTripCollection{Collection: database.Collection("trips")}
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	expenses := &db.MongoExpenseCollection{Collection: database.Collection("expenses")}
	acks := &db.MongoAcknowledgementCollection{Collection: database.Collection("acknowledgements")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	cfg := mileage.ConfigFromEnv()
	validator := mileage.NewValidator(cfg, trips)
	detector := mileage.NewDetector(cfg, trips, vehicles)
	ledger := mileage.NewLedger(acks)

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	authHandler := handlers.NewAuthHandler(authService, users)
	vehicleHandler := handlers.NewVehicleHandler(vehicles)
	tripHandler := handlers.NewTripHandler(trips, validator)
	expenseHandler := handlers.NewExpenseHandler(expenses)
	gapHandler := handlers.NewGapHandler(detector, ledger, vehicles)
	analyticsHandler := handlers.NewAnalyticsHandler(trips, expenses)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/profile/update", authHandler.UpdateProfile)
	mux.HandleFunc("/api/auth/password", authHandler.ChangePassword)

	mux.HandleFunc("/api/vehicles", vehicleHandler.Collection)
	mux.HandleFunc("/api/vehicles/{id}", vehicleHandler.Item)
	mux.HandleFunc("/api/vehicles/{id}/gaps", gapHandler.VehicleGaps)

	mux.HandleFunc("/api/trips", tripHandler.Collection)
	mux.HandleFunc("/api/trips/check", tripHandler.Check)
	mux.HandleFunc("/api/trips/{id}", tripHandler.Item)

	mux.HandleFunc("/api/expenses", expenseHandler.Collection)

	mux.HandleFunc("/api/gaps", gapHandler.List)
	mux.HandleFunc("/api/gaps/stats", gapHandler.Stats)
	mux.HandleFunc("/api/gaps/report", gapHandler.Report)
	mux.HandleFunc("/api/gaps/{id}/acknowledge", gapHandler.Acknowledge)

	mux.HandleFunc("/api/analytics/summary", analyticsHandler.Summary)
	mux.HandleFunc("/api/analytics/trends", analyticsHandler.Trends)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimit := middleware.NewRateLimitMiddleware()
	handler := rateLimit.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	// Optional MQTT ingest for trip captures from on-board units.
	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		subscriber := ingest.NewSubscriber(brokerURL, "fleet-mileage-api", validator, trips)
		if err := subscriber.Start(ingest.DefaultTopic); err != nil {
			log.WithError(err).Fatal("Failed to start trip capture ingest")
		}
		defer subscriber.Stop()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
