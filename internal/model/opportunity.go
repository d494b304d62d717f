// Package model defines the domain types shared across the grid
// connection analysis pipeline.
package model

// RiskLevel is a qualitative risk rating for one risk axis.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// StrategicValue is the qualitative strategic-location rating.
type StrategicValue string

const (
	StrategicHigh   StrategicValue = "High"
	StrategicMedium StrategicValue = "Medium"
	StrategicLow    StrategicValue = "Low"
)

// TechnicalRequirements describes the facility's minimum grid needs.
type TechnicalRequirements struct {
	MinCapacityMW      float64 `json:"min_capacity_mw"`
	PreferredVoltageKV float64 `json:"preferred_voltage_kv"`
	RedundancyRequired bool    `json:"redundancy_required"`
}

// Reliability holds historical reliability data for a connection point.
// The record as a whole is optional on ConnectionOpportunity.
type Reliability struct {
	OutageHoursPerYear   float64 `json:"outage_hours_per_year"`
	RedundantPaths       int     `json:"redundant_paths"`
	EmergencyResponseHrs float64 `json:"emergency_response_hrs"`
}

// RiskProfile holds the four qualitative risk axes.
type RiskProfile struct {
	Permitting    RiskLevel `json:"permitting"`
	Technical     RiskLevel `json:"technical"`
	Environmental RiskLevel `json:"environmental"`
	Commercial    RiskLevel `json:"commercial"`
}

// ConnectionOpportunity is one candidate grid tie-in point. Optional
// attributes are pointers; the engine resolves absent values to neutral
// defaults and never mutates a candidate.
type ConnectionOpportunity struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	TSOName          string  `json:"tso_name"`
	Country          string  `json:"country"`
	DistanceKM       float64 `json:"distance_km"`
	CapacityMW       float64 `json:"capacity_mw"`
	VoltageKV        float64 `json:"voltage_kv"`
	TimelineMonths   int     `json:"timeline_months"`
	EstimatedCostEUR float64 `json:"estimated_cost_eur"`

	Requirements TechnicalRequirements `json:"requirements"`

	Reliability *Reliability `json:"reliability,omitempty"`
	Risk        *RiskProfile `json:"risk,omitempty"`

	// ExpansionHeadroomMW is future expansion capacity beyond CapacityMW.
	ExpansionHeadroomMW *float64 `json:"expansion_headroom_mw,omitempty"`
	// RenewableAffinity is a 0-100 renewable-integration score.
	RenewableAffinity *float64       `json:"renewable_affinity,omitempty"`
	StrategicValue    StrategicValue `json:"strategic_value,omitempty"`
}

// Site describes the facility location under analysis.
type Site struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// AnalysisContext is the enclosing site analysis passed to the engine
// alongside a candidate batch.
type AnalysisContext struct {
	Site          Site                    `json:"site"`
	Requirements  TechnicalRequirements   `json:"requirements"`
	Opportunities []ConnectionOpportunity `json:"opportunities,omitempty"`
}

// RegionalAdjustment is the signed point correction applied for a
// candidate's jurisdiction, with the rationale shown to users.
type RegionalAdjustment struct {
	Region      string  `json:"region"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// ScoredRecommendation is the engine output for one eligible candidate.
type ScoredRecommendation struct {
	Opportunity  ConnectionOpportunity `json:"opportunity"`
	FactorScores map[string]float64    `json:"factor_scores"`
	Regional     RegionalAdjustment    `json:"regional_adjustment"`
	Bonuses      map[string]float64    `json:"bonuses"`
	FinalScore   float64               `json:"final_score"`
	Tier         int                   `json:"tier"`
	Narrative    string                `json:"narrative"`
	Strengths    []string              `json:"strengths"`
	Concerns     []string              `json:"concerns"`
	NextSteps    []string              `json:"next_steps"`
}

// Substation is a grid substation record loaded from TSO shapefiles,
// used by the proximity collector to derive connection opportunities.
type Substation struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Operator   string  `json:"operator"`
	Country    string  `json:"country"`
	VoltageKV  float64 `json:"voltage_kv"`
	CapacityMW float64 `json:"capacity_mw"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// AnalysisRun records one persisted recommendation run.
type AnalysisRun struct {
	ID       string `json:"id"`
	SiteName string `json:"site_name"`
	Preset   string `json:"preset,omitempty"`
}
