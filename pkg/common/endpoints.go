package common

const (
	VerifyEndpoint  = "verify"
	HealthEndpoint  = "health"
	MetricsEndpoint = "metrics"
)
