package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Trend is the direction of a metric relative to its thresholds.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Color is the severity bucket of an indicator.
type Color string

const (
	ColorSuccess   Color = "success"
	ColorWarning   Color = "warning"
	ColorDanger    Color = "danger"
	ColorPrimary   Color = "primary"
	ColorSecondary Color = "secondary"
)

// Priority is the display tier of an indicator or section.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category groups indicators by the slice of source data they come from.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategorySystem      Category = "system"
	CategoryActivity    Category = "activity"
	CategoryHealth      Category = "health"
)

// Categories lists every category in canonical order.
var Categories = []Category{CategoryPerformance, CategorySystem, CategoryActivity, CategoryHealth}

// Layout is a rendering hint for a section.
type Layout string

const (
	LayoutGrid       Layout = "grid"
	LayoutHorizontal Layout = "horizontal"
)

// Value is an indicator value: either a number or a display label.
// It marshals to a bare JSON number or string.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number returns a numeric Value.
func Number(v float64) Value { return Value{num: v} }

// Text returns a label Value.
func Text(s string) Value { return Value{text: s, isText: true} }

// Float returns the numeric value and true, or 0 and false for a label.
func (v Value) Float() (float64, bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// String renders the value for display.
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("indicator value: want number or string: %w", err)
	}
	*v = Number(f)
	return nil
}

// Indicator is one classified, displayable metric. Indicators are values:
// they are built fresh for every evaluation and carry no reference to the
// snapshot they came from beyond their ID.
type Indicator struct {
	ID          string   `json:"id"`
	Value       Value    `json:"value"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Trend       Trend    `json:"trend"`
	TrendValue  *float64 `json:"trendValue,omitempty"`
	TrendLabel  string   `json:"trendLabel,omitempty"`
	Color       Color    `json:"color"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	Suffix      string   `json:"suffix,omitempty"`
}

// Section is a named, bounded group of indicators for display.
type Section struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Indicators  []Indicator `json:"indicators"`
	Layout      Layout      `json:"layout"`
	Columns     int         `json:"columns,omitempty"`
	Priority    Priority    `json:"priority"`
	Collapsible bool        `json:"collapsible"`
}

// Summary counts indicators by severity.
type Summary struct {
	TotalIndicators int       `json:"totalIndicators"`
	SuccessCount    int       `json:"successCount"`
	WarningCount    int       `json:"warningCount"`
	DangerCount     int       `json:"dangerCount"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// OverallStatus is the verdict of the indicator pipeline.
type OverallStatus string

const (
	OverallHealthy  OverallStatus = "healthy"
	OverallWarning  OverallStatus = "warning"
	OverallCritical OverallStatus = "critical"
)

// SystemStatus is the overall verdict with deduplicated issues and
// recommendations.
type SystemStatus struct {
	Overall         OverallStatus `json:"overall"`
	Issues          []string      `json:"issues"`
	Recommendations []string      `json:"recommendations"`
}

// ConsolidatedResult is the output of one engine evaluation.
type ConsolidatedResult struct {
	Sections     []Section    `json:"sections"`
	Summary      Summary      `json:"summary"`
	SystemStatus SystemStatus `json:"systemStatus"`
}
