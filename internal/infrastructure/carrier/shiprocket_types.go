package carrier

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// shiprocketAuthRequest is the login payload for /auth/login
type shiprocketAuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// shiprocketAuthResponse is the login response carrying the bearer token
type shiprocketAuthResponse struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token"`
	Message   string `json:"message,omitempty"`
}

// ---------------------------------------------------------------------------
// Shipment Creation (adhoc order)
// ---------------------------------------------------------------------------

// shiprocketOrderItem is one line in the adhoc order payload
type shiprocketOrderItem struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Units        int    `json:"units"`
	SellingPrice string `json:"selling_price"`
	Discount     string `json:"discount,omitempty"`
}

// shiprocketOrderRequest is the payload for /orders/create/adhoc. Shiprocket
// flattens both addresses into billing_*/shipping_* fields and takes a
// shipping_is_billing flag when they coincide.
type shiprocketOrderRequest struct {
	OrderID        string `json:"order_id"`
	OrderDate      string `json:"order_date"`
	PickupLocation string `json:"pickup_location"`

	BillingCustomerName string `json:"billing_customer_name"`
	BillingLastName     string `json:"billing_last_name"`
	BillingAddress      string `json:"billing_address"`
	BillingCity         string `json:"billing_city"`
	BillingPincode      string `json:"billing_pincode"`
	BillingState        string `json:"billing_state"`
	BillingCountry      string `json:"billing_country"`
	BillingEmail        string `json:"billing_email"`
	BillingPhone        string `json:"billing_phone"`

	ShippingIsBilling bool `json:"shipping_is_billing"`

	ShippingCustomerName string `json:"shipping_customer_name"`
	ShippingLastName     string `json:"shipping_last_name"`
	ShippingAddress      string `json:"shipping_address"`
	ShippingCity         string `json:"shipping_city"`
	ShippingPincode      string `json:"shipping_pincode"`
	ShippingState        string `json:"shipping_state"`
	ShippingCountry      string `json:"shipping_country"`
	ShippingEmail        string `json:"shipping_email"`
	ShippingPhone        string `json:"shipping_phone"`

	OrderItems    []shiprocketOrderItem `json:"order_items"`
	PaymentMethod string                `json:"payment_method"`
	SubTotal      string                `json:"sub_total"`
	TotalQuantity int                   `json:"total_quantity"`

	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
}

// shiprocketOrderResponse is the response for /orders/create/adhoc. A created
// shipment carries shipment_id; awb_code stays empty until assignment.
type shiprocketOrderResponse struct {
	OrderID     int64  `json:"order_id"`
	ShipmentID  int64  `json:"shipment_id"`
	Status      string `json:"status"`
	StatusCode  int    `json:"status_code"`
	AWBCode     string `json:"awb_code"`
	CourierName string `json:"courier_name"`
	Message     string `json:"message,omitempty"`
}

// ---------------------------------------------------------------------------
// AWB Assignment
// ---------------------------------------------------------------------------

// shiprocketAWBRequest is the payload for /courier/assign/awb
type shiprocketAWBRequest struct {
	ShipmentID string `json:"shipment_id"`
	CourierID  int    `json:"courier_id,omitempty"`
}

// shiprocketAWBResponse is the response for /courier/assign/awb
type shiprocketAWBResponse struct {
	AWBAssignStatus int `json:"awb_assign_status"`
	Response        struct {
		Data struct {
			AWBCode          string `json:"awb_code"`
			CourierCompanyID int    `json:"courier_company_id"`
			CourierName      string `json:"courier_name"`
		} `json:"data"`
	} `json:"response"`
	Message string `json:"message,omitempty"`
}

// ---------------------------------------------------------------------------
// Tracking and Cancellation
// ---------------------------------------------------------------------------

// shiprocketTrackResponse is the response for /courier/track/awb/{awb}
type shiprocketTrackResponse struct {
	TrackingData struct {
		TrackStatus    int    `json:"track_status"`
		ShipmentStatus int    `json:"shipment_status"`
		Error          string `json:"error,omitempty"`
	} `json:"tracking_data"`
}

// shiprocketCancelRequest is the payload for /orders/cancel/shipment/awbs
type shiprocketCancelRequest struct {
	AWBs []string `json:"awbs"`
}
