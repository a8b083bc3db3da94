package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/fleetware/fleet-mileage/internal/models"
)

// VehicleProfit is one vehicle's financial summary: cash taken in minus the
// expenses booked against it.
type VehicleProfit struct {
	VehicleID  string  `json:"vehicle_id"`
	CashIn     float64 `json:"cash_in"`
	Expenses   float64 `json:"expenses"`
	Profit     float64 `json:"profit"`
	DistanceKm float64 `json:"distance_km"`
}

// Summary aggregates a set of trip and expense records for the dashboard.
type Summary struct {
	TotalTrips      int             `json:"total_trips"`
	TotalDistanceKm float64         `json:"total_distance_km"`
	AverageDailyKm  float64         `json:"average_daily_km"`
	TotalCashIn     float64         `json:"total_cash_in"`
	TotalExpenses   float64         `json:"total_expenses"`
	TotalProfit     float64         `json:"total_profit"`
	ProfitMargin    float64         `json:"profit_margin"`
	VehicleProfits  []VehicleProfit `json:"vehicle_profits"`
	TopPerformer    *VehicleProfit  `json:"top_performer,omitempty"`
	LowPerformer    *VehicleProfit  `json:"low_performer,omitempty"`
}

// TrendPoint is one calendar day in a cumulative trend series.
type TrendPoint struct {
	Date                 string  `json:"date"` // YYYY-MM-DD
	CashIn               float64 `json:"cash_in"`
	Expenses             float64 `json:"expenses"`
	Profit               float64 `json:"profit"`
	DistanceKm           float64 `json:"distance_km"`
	CumulativeCashIn     float64 `json:"cumulative_cash_in"`
	CumulativeExpenses   float64 `json:"cumulative_expenses"`
	CumulativeProfit     float64 `json:"cumulative_profit"`
	CumulativeDistanceKm float64 `json:"cumulative_distance_km"`
}

// Summarize reduces trips and expenses to dashboard totals. Non-finite
// amounts count as zero so a single bad record cannot poison the sums, and
// every ratio is guarded against division by zero.
func Summarize(trips []models.TripRecord, expenses []models.ExpenseRecord) Summary {
	s := Summary{TotalTrips: len(trips)}

	byVehicle := make(map[string]*VehicleProfit)
	var vehicleOrder []string
	days := make(map[string]struct{})

	vehicleFor := func(id string) *VehicleProfit {
		vp, ok := byVehicle[id]
		if !ok {
			vp = &VehicleProfit{VehicleID: id}
			byVehicle[id] = vp
			vehicleOrder = append(vehicleOrder, id)
		}
		return vp
	}

	for _, t := range trips {
		distance := sanitize(t.DistanceTraveled())
		cashIn := sanitize(t.CashIn)
		s.TotalDistanceKm += distance
		s.TotalCashIn += cashIn
		days[dayKey(t.Date)] = struct{}{}

		vp := vehicleFor(t.VehicleID)
		vp.CashIn += cashIn
		vp.DistanceKm += distance
	}
	for _, e := range expenses {
		amount := sanitize(e.Amount)
		s.TotalExpenses += amount
		if e.VehicleID != "" {
			vehicleFor(e.VehicleID).Expenses += amount
		}
	}

	s.TotalProfit = s.TotalCashIn - s.TotalExpenses
	if s.TotalCashIn != 0 {
		s.ProfitMargin = s.TotalProfit / s.TotalCashIn
	}
	if len(days) > 0 {
		s.AverageDailyKm = s.TotalDistanceKm / float64(len(days))
	}

	// Vehicles are reported in first-encountered order; the same order breaks
	// ties when picking the top and low performers.
	for _, id := range vehicleOrder {
		vp := byVehicle[id]
		vp.Profit = vp.CashIn - vp.Expenses
		s.VehicleProfits = append(s.VehicleProfits, *vp)
	}
	for i := range s.VehicleProfits {
		vp := &s.VehicleProfits[i]
		if s.TopPerformer == nil || vp.Profit > s.TopPerformer.Profit {
			s.TopPerformer = vp
		}
		if s.LowPerformer == nil || vp.Profit < s.LowPerformer.Profit {
			s.LowPerformer = vp
		}
	}
	return s
}

// TrendSeries groups trips and expenses by calendar date, computes daily
// sums and returns running totals in ascending date order.
func TrendSeries(trips []models.TripRecord, expenses []models.ExpenseRecord) []TrendPoint {
	daily := make(map[string]*TrendPoint)
	pointFor := func(date time.Time) *TrendPoint {
		key := dayKey(date)
		p, ok := daily[key]
		if !ok {
			p = &TrendPoint{Date: key}
			daily[key] = p
		}
		return p
	}

	for _, t := range trips {
		p := pointFor(t.Date)
		p.CashIn += sanitize(t.CashIn)
		p.DistanceKm += sanitize(t.DistanceTraveled())
	}
	for _, e := range expenses {
		pointFor(e.Date).Expenses += sanitize(e.Amount)
	}

	series := make([]TrendPoint, 0, len(daily))
	for _, p := range daily {
		p.Profit = p.CashIn - p.Expenses
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	var cashIn, expensesTotal, profit, distance float64
	for i := range series {
		cashIn += series[i].CashIn
		expensesTotal += series[i].Expenses
		profit += series[i].Profit
		distance += series[i].DistanceKm
		series[i].CumulativeCashIn = cashIn
		series[i].CumulativeExpenses = expensesTotal
		series[i].CumulativeProfit = profit
		series[i].CumulativeDistanceKm = distance
	}
	return series
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
