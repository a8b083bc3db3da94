package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/mileage"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// DefaultTopic receives trip captures from on-board units and field apps.
// The wildcard segment is the vehicle id.
const DefaultTopic = "fleet/trips/+"

// TripCapture is the wire payload published by capture clients.
type TripCapture struct {
	CompanyID    string    `json:"company_id"`
	VehicleID    string    `json:"vehicle_id"`
	DriverID     string    `json:"driver_id"`
	Date         time.Time `json:"date"`
	StartMileage float64   `json:"start_mileage"`
	EndMileage   float64   `json:"end_mileage"`
	CashIn       float64   `json:"cash_in"`
	Notes        string    `json:"notes"`
}

// Subscriber consumes trip captures over MQTT, runs them through the strict
// validation path and persists the ones that pass. Invalid captures are
// logged and dropped; there is no operator on the other end to correct them.
type Subscriber struct {
	client    mqtt.Client
	validator *mileage.Validator
	trips     db.TripCollection
}

// NewSubscriber creates a subscriber for the given broker.
func NewSubscriber(brokerURL, clientID string, validator *mileage.Validator, trips db.TripCollection) *Subscriber {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	return &Subscriber{
		client:    mqtt.NewClient(opts),
		validator: validator,
		trips:     trips,
	}
}

// Start connects to the broker and subscribes to the trip capture topic.
func (s *Subscriber) Start(topic string) error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	if token := s.client.Subscribe(topic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, token.Error())
	}
	log.WithField("topic", topic).Info("Trip capture ingest started")
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var capture TripCapture
	if err := json.Unmarshal(msg.Payload(), &capture); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropping malformed trip capture")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trip := models.TripRecord{
		CompanyID:    capture.CompanyID,
		VehicleID:    capture.VehicleID,
		DriverID:     capture.DriverID,
		Date:         capture.Date,
		StartMileage: capture.StartMileage,
		EndMileage:   capture.EndMileage,
		CashIn:       capture.CashIn,
		Notes:        capture.Notes,
	}
	result, err := s.validator.ValidateNew(ctx, trip)
	if err != nil {
		log.WithError(err).WithField("vehicle_id", trip.VehicleID).Error("Trip capture validation lookup failed")
		return
	}
	if !result.Valid {
		log.WithFields(log.Fields{
			"vehicle_id": trip.VehicleID,
			"reason":     result.Reason,
			"message":    result.Message,
		}).Warn("Dropping invalid trip capture")
		return
	}
	for _, w := range result.Warnings {
		log.WithFields(log.Fields{
			"vehicle_id": trip.VehicleID,
			"code":       w.Code,
		}).Info(w.Message)
	}

	id, err := s.trips.InsertTrip(ctx, trip)
	if err != nil {
		log.WithError(err).WithField("vehicle_id", trip.VehicleID).Error("Failed to persist trip capture")
		return
	}
	log.WithFields(log.Fields{
		"trip_id":    id,
		"vehicle_id": trip.VehicleID,
		"distance":   trip.DistanceTraveled(),
	}).Info("Ingested trip capture")
}
