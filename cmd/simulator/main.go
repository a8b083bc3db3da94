package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Vehicle is the registration payload sent to the API.
type Vehicle struct {
	Registration string `json:"registration"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Status       string `json:"status"`
}

// TripCapture is the payload published over MQTT for each simulated trip.
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

// VehicleState tracks a simulated vehicle's odometer and trip calendar.
type VehicleState struct {
	VehicleID string
	Odometer  float64
	NextDate  time.Time
}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func createVehicle(apiURL string, index int) (string, error) {
	makes := []string{"Ford", "Toyota", "Mercedes", "Volkswagen", "Renault"}
	models := []string{"Transit", "Hiace", "Sprinter", "Crafter", "Master"}

	vehicle := Vehicle{
		Registration: fmt.Sprintf("FLT-%03d", index+1),
		Make:         makes[rand.Intn(len(makes))],
		Model:        models[rand.Intn(len(models))],
		Year:         2018 + rand.Intn(7),
		Status:       "active",
	}
	data, err := json.Marshal(vehicle)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vehicle: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/vehicles", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to create vehicle: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("vehicle creation failed with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	vehicleID, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid vehicle ID in response")
	}

	log.WithFields(log.Fields{
		"vehicle_id":   vehicleID,
		"registration": vehicle.Registration,
	}).Info("Created vehicle")
	return vehicleID, nil
}

// nextTrip advances the vehicle's odometer by one plausible trip. A small
// share of trips start past the previous end reading so the gap detector
// has something to find.
func nextTrip(s *VehicleState, companyID string) TripCapture {
	start := s.Odometer
	if rand.Float64() < 0.15 {
		// unrecorded usage between trips
		start += 20 + rand.Float64()*700
	}
	distance := 30 + rand.Float64()*270
	end := start + distance

	capture := TripCapture{
		CompanyID:    companyID,
		VehicleID:    s.VehicleID,
		DriverID:     fmt.Sprintf("driver-%d", rand.Intn(5)+1),
		Date:         s.NextDate,
		StartMileage: start,
		EndMileage:   end,
		CashIn:       distance * (0.8 + rand.Float64()*0.8),
	}
	s.Odometer = end
	s.NextDate = s.NextDate.AddDate(0, 0, 1+rand.Intn(3))
	return capture
}

func publishTrip(client mqtt.Client, capture TripCapture) {
	data, err := json.Marshal(capture)
	if err != nil {
		log.WithError(err).Error("Failed to marshal trip capture")
		return
	}
	topic := "fleet/trips/" + capture.VehicleID
	token := client.Publish(topic, 1, false, data)
	token.Wait()
	if token.Error() != nil {
		log.WithError(token.Error()).Error("Failed to publish trip capture")
		return
	}
	log.WithFields(log.Fields{
		"vehicle_id": capture.VehicleID,
		"date":       capture.Date.Format("2006-01-02"),
		"distance":   capture.EndMileage - capture.StartMileage,
	}).Info("Published trip capture")
}

func main() {
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	companyID := os.Getenv("SIM_COMPANY_ID")
	if companyID == "" {
		companyID = "demo-company"
	}

	fleetSize := 5
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		brokerURL = "tcp://localhost:1883"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"broker_url": brokerURL,
		"interval":   interval,
	}).Info("Starting fleet trip simulation")

	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID("fleet-mileage-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	defer client.Disconnect(250)

	states := make([]*VehicleState, 0, fleetSize)
	startDate := time.Now().AddDate(0, -3, 0)
	for i := 0; i < fleetSize; i++ {
		vehicleID, err := createVehicle(apiURL, i)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		states = append(states, &VehicleState{
			VehicleID: vehicleID,
			Odometer:  10000 + rand.Float64()*90000,
			NextDate:  startDate.AddDate(0, 0, rand.Intn(5)),
		})
	}

	log.WithField("created_vehicles", len(states)).Info("Vehicle creation completed")
	if len(states) == 0 {
		log.Error("No vehicles created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		return
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		for _, s := range states {
			publishTrip(client, nextTrip(s, companyID))
		}
	}
}
