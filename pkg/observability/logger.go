package observability

import "go.uber.org/zap"

// NewLogger builds a zap logger matching the deployment environment:
// structured JSON in production, console-friendly output everywhere else.
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
