package entity

// MonthlyCohort holds the new-vs-returning customer breakdown for one
// calendar month present in the dataset.
type MonthlyCohort struct {
	Month                    string  `json:"month"`
	TotalCustomers           int     `json:"total_customers"`
	NewCustomers             int     `json:"new_customers"`
	ReturningCustomers       int     `json:"returning_customers"`
	NewPercentage            float64 `json:"new_percentage"`
	ReturningPercentage      float64 `json:"returning_percentage"`
	TotalRevenue             float64 `json:"total_revenue"`
	NewCustomerRevenue       float64 `json:"new_customer_revenue"`
	ReturningCustomerRevenue float64 `json:"returning_customer_revenue"`
}

// LTVMetrics holds the lifetime-value figures computed over the whole
// dataset. The JSON keys are the report labels consumers already depend on.
type LTVMetrics struct {
	BasicLTV             float64 `json:"Basic LTV"`
	AdvancedLTV          float64 `json:"Advanced LTV"`
	AvgPurchaseValue     float64 `json:"Average Purchase Value"`
	AvgPurchaseFrequency float64 `json:"Average Purchase Frequency"`
	AvgCustomerLifespan  float64 `json:"Average Customer LifeSpan (Months)"`
}

// Report is the full output of one analytics run. LTVMetrics is embedded so
// its fields marshal as top-level siblings of monthly_breakdown.
type Report struct {
	MonthlyBreakdown []MonthlyCohort `json:"monthly_breakdown"`
	LTVMetrics
}
