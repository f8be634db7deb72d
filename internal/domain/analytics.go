package domain

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

type RevenuePoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type RevenueStats struct {
	Total   decimal.Decimal `json:"total"`
	Growth  float64         `json:"growth"`
	Monthly []RevenuePoint  `json:"monthly"`
}

type FleetPerformance struct {
	Utilization    float64 `json:"utilization"`
	ActiveVehicles int     `json:"activeVehicles"`
	TotalVehicles  int     `json:"totalVehicles"`
	AverageFuel    float64 `json:"averageFuel"`
	MaintenanceDue int     `json:"maintenanceDue"`
}

type DeliveryPerformance struct {
	OnTimeRate float64 `json:"onTimeRate"`
	Delivered  int     `json:"delivered"`
	Delayed    int     `json:"delayed"`
	Failed     int     `json:"failed"`
}

// AnalyticsSnapshot is a dashboard aggregate. It is refreshed as a whole.
type AnalyticsSnapshot struct {
	Period            string              `json:"period"`
	Revenue           RevenueStats        `json:"revenue"`
	Fleet             FleetPerformance    `json:"fleet"`
	Delivery          DeliveryPerformance `json:"delivery"`
	OrderBreakdown    map[string]int      `json:"orderBreakdown"`
	CustomerBreakdown map[string]int      `json:"customerBreakdown"`
	CostBreakdown     map[string]float64  `json:"costBreakdown"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

func (a AnalyticsSnapshot) Clone() AnalyticsSnapshot {
	c := a
	if a.Revenue.Monthly != nil {
		c.Revenue.Monthly = append([]RevenuePoint(nil), a.Revenue.Monthly...)
	}
	c.OrderBreakdown = maps.Clone(a.OrderBreakdown)
	c.CustomerBreakdown = maps.Clone(a.CustomerBreakdown)
	c.CostBreakdown = maps.Clone(a.CostBreakdown)
	return c
}
