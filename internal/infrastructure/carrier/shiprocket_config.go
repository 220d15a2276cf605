// Package carrier implements the logistics carrier adapters behind the
// shipping.Carrier port: Shiprocket (login/token auth), Delhivery (static
// API key), and a manual no-op for orders fulfilled outside any integration.
package carrier

import "errors"

// ShiprocketConfig holds configuration for the Shiprocket API integration
type ShiprocketConfig struct {
	// Email is the Shiprocket account login email
	Email string
	// Password is the Shiprocket account password
	Password string
	// BaseURL is the base URL for the Shiprocket external API
	BaseURL string
	// PickupLocation is the registered pickup location name
	PickupLocation string
	// CourierID selects the courier on AWB assignment; 0 lets Shiprocket pick
	CourierID int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// ShiprocketProductionAPIURL is the production API endpoint
const ShiprocketProductionAPIURL = "https://apiv2.shiprocket.in/v1/external"

// Errors for Shiprocket configuration
var (
	ErrShiprocketConfigMissingEmail    = errors.New("shiprocket: login email is required")
	ErrShiprocketConfigMissingPassword = errors.New("shiprocket: login password is required")
	ErrShiprocketConfigMissingPickup   = errors.New("shiprocket: pickup location is required")
)

// NewShiprocketConfig creates a new Shiprocket configuration with defaults
func NewShiprocketConfig(email, password, pickupLocation string) *ShiprocketConfig {
	return &ShiprocketConfig{
		Email:          email,
		Password:       password,
		BaseURL:        ShiprocketProductionAPIURL,
		PickupLocation: pickupLocation,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Shiprocket configuration
func (c *ShiprocketConfig) Validate() error {
	if c.Email == "" {
		return ErrShiprocketConfigMissingEmail
	}
	if c.Password == "" {
		return ErrShiprocketConfigMissingPassword
	}
	if c.PickupLocation == "" {
		return ErrShiprocketConfigMissingPickup
	}
	if c.BaseURL == "" {
		c.BaseURL = ShiprocketProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
