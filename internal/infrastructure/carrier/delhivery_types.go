package carrier

// ---------------------------------------------------------------------------
// Shipment Creation
// ---------------------------------------------------------------------------

// delhiveryShipment is one consignment in the manifest payload. Delhivery
// uses abbreviated field names on the wire.
type delhiveryShipment struct {
	Name    string `json:"name"`
	Address string `json:"add"`
	Pincode string `json:"pin"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Phone   string `json:"phone"`

	Order        string `json:"order"`
	PaymentMode  string `json:"payment_mode"`
	ProductsDesc string `json:"products_desc"`
	CODAmount    string `json:"cod_amount"`
	TotalAmount  string `json:"total_amount"`
	Quantity     int    `json:"quantity"`

	Weight         float64 `json:"weight"`
	ShipmentLength float64 `json:"shipment_length"`
	ShipmentWidth  float64 `json:"shipment_width"`
	ShipmentHeight float64 `json:"shipment_height"`
}

// delhiveryPickupLocation names the registered warehouse
type delhiveryPickupLocation struct {
	Name string `json:"name"`
}

// delhiveryCreateRequest is the JSON document sent (form-encoded) to
// /api/cmu/create.json
type delhiveryCreateRequest struct {
	Shipments      []delhiveryShipment     `json:"shipments"`
	PickupLocation delhiveryPickupLocation `json:"pickup_location"`
}

// delhiveryPackage is one manifest outcome inside the create response
type delhiveryPackage struct {
	Status  string   `json:"status"`
	Waybill string   `json:"waybill"`
	Refnum  string   `json:"refnum"`
	Remarks []string `json:"remarks,omitempty"`
}

// delhiveryCreateResponse is the response for /api/cmu/create.json. The
// waybill is issued directly on creation; there is no separate assignment.
type delhiveryCreateResponse struct {
	Success  bool               `json:"success"`
	Packages []delhiveryPackage `json:"packages"`
	Remark   string             `json:"rmk,omitempty"`
}

// ---------------------------------------------------------------------------
// Tracking and Cancellation
// ---------------------------------------------------------------------------

// delhiveryTrackResponse is the response for /api/v1/packages/json
type delhiveryTrackResponse struct {
	ShipmentData []struct {
		Shipment struct {
			AWB    string `json:"AWB"`
			Status struct {
				Status         string `json:"Status"`
				StatusDateTime string `json:"StatusDateTime"`
				StatusLocation string `json:"StatusLocation"`
			} `json:"Status"`
		} `json:"Shipment"`
	} `json:"ShipmentData"`
	Error string `json:"Error,omitempty"`
}

// delhiveryCancelRequest is the payload for /api/p/edit
type delhiveryCancelRequest struct {
	Waybill      string `json:"waybill"`
	Cancellation string `json:"cancellation"`
}
