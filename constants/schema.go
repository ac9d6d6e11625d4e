package constants

// Source column headers expected in uploaded job exports. Matching is exact
// (case- and spacing-sensitive); the dispatch system emits them verbatim.
const (
	ColPhone   = "PHONE NO"
	ColPrice   = "DRIVER PRICE"
	ColJobDate = "JOB DATE"
)

// JobDateLayout is the day-first, two-digit-year timestamp format used by the
// dispatch exports, e.g. "27/03/24 14:05:09".
const JobDateLayout = "02/01/06 15:04:05"

// ChurnThresholdDays is the assumed inactivity window (in days) after which a
// customer is considered churned. Customer lifespan is derived from it.
const ChurnThresholdDays = 180.0
