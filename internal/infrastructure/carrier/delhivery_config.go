package carrier

import "errors"

// DelhiveryConfig holds configuration for the Delhivery API integration.
// Delhivery authenticates with a static API token, so there is no session
// manager; a missing key fails the individual call fast.
type DelhiveryConfig struct {
	// APIKey is the static API token issued by Delhivery
	APIKey string
	// BaseURL is the base URL for the Delhivery API
	BaseURL string
	// PickupLocation is the registered warehouse name
	PickupLocation string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// DelhiveryProductionAPIURL is the production API endpoint
const DelhiveryProductionAPIURL = "https://track.delhivery.com"

// Errors for Delhivery configuration
var (
	ErrDelhiveryConfigMissingAPIKey = errors.New("delhivery: api key is required")
	ErrDelhiveryConfigMissingPickup = errors.New("delhivery: pickup location is required")
)

// NewDelhiveryConfig creates a new Delhivery configuration with defaults
func NewDelhiveryConfig(apiKey, pickupLocation string) *DelhiveryConfig {
	return &DelhiveryConfig{
		APIKey:         apiKey,
		BaseURL:        DelhiveryProductionAPIURL,
		PickupLocation: pickupLocation,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Delhivery configuration
func (c *DelhiveryConfig) Validate() error {
	if c.APIKey == "" {
		return ErrDelhiveryConfigMissingAPIKey
	}
	if c.PickupLocation == "" {
		return ErrDelhiveryConfigMissingPickup
	}
	if c.BaseURL == "" {
		c.BaseURL = DelhiveryProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
