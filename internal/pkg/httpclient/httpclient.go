package httpclient

import (
	"time"

	"registration-service/config"

	circuit "github.com/rubyist/circuitbreaker"
)

func InitCircuitBreaker(cfg *config.HttpClientConfig, breakerType string) *circuit.Breaker {
	switch breakerType {
	case "error_rate":
		return circuit.NewRateBreaker(cfg.ErrorRate, cfg.MinSamples)
	case "consecutive":
		return circuit.NewConsecutiveBreaker(cfg.ConsecutiveFailures)
	default:
		return circuit.NewThresholdBreaker(cfg.ConsecutiveFailures)
	}
}

func InitHttpClient(cfg *config.HttpClientConfig, cb *circuit.Breaker) *circuit.HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	client := circuit.NewHTTPClientWithBreaker(cb, timeout, nil)
	return client
}
