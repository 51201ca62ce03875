package model

import (
	"fmt"
	"time"
)

// MatrixCell is the assignment of one house to one package during one week.
type MatrixCell struct {
	HouseNumber      int     `json:"houseNumber"`
	WeekIndex        int     `json:"weekIndex"`
	PackageName      string  `json:"packageName"`
	Color            string  `json:"color"`
	IsReduced        bool    `json:"isReduced,omitempty"`
	ReductionOpacity float64 `json:"reductionOpacity,omitempty"`
	Cost             float64 `json:"cost"`
}

// WeekDateMapping links a week index to concrete calendar dates.
type WeekDateMapping struct {
	WeekIndex   int       `json:"weekIndex"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	WeekLabel   string    `json:"weekLabel"`
	Month       string    `json:"month"`
	MonthNumber int       `json:"monthNumber"`
	Year        int       `json:"year"`
}

// FinancialWeekData is the cost rollup of one week.
type FinancialWeekData struct {
	WeekIndex      int                `json:"weekIndex"`
	WeekLabel      string             `json:"weekLabel"`
	WeeklyCost     float64            `json:"weeklyCost"`
	CumulativeCost float64            `json:"cumulativeCost"`
	ActiveHouses   int                `json:"activeHouses"`
	PackageCosts   map[string]float64 `json:"packageCosts"`
}

// CalculationMetadata summarises a calculation.
type CalculationMetadata struct {
	CalculationID        string    `json:"calculationId"`
	TotalProjectDuration int       `json:"totalProjectDuration"`
	TotalPackages        int       `json:"totalPackages"`
	ReductionPeriods     int       `json:"reductionPeriods"`
	TotalProjectCost     float64   `json:"totalProjectCost"`
	CalculatedAt         time.Time `json:"calculatedAt"`
	BaseDate             string    `json:"baseDate"`
	// Complete is false when the safety cap stopped the schedule early.
	Complete bool `json:"complete"`
}

// CalculationResult is the immutable output of a baseline calculation.
// Matrix is indexed by house (0-based); each row is ordered by package then week.
type CalculationResult struct {
	Matrix           [][]MatrixCell      `json:"matrix"`
	Weeks            []string            `json:"weeks"`
	Houses           []int               `json:"houses"`
	WeekDateMappings []WeekDateMapping   `json:"weekDateMappings"`
	FinancialData    []FinancialWeekData `json:"financialData"`
	Metadata         CalculationMetadata `json:"calculationMetadata"`
}

// WeekLabel formats a 0-based week index as S01, S02, ...
func WeekLabel(weekIndex int) string {
	return fmt.Sprintf("S%02d", weekIndex+1)
}
