package response_models

type CreateCheckoutResponse struct {
	DonationID   string  `json:"donation_id"`
	OrderCode    int64   `json:"order_code"`
	Amount       float64 `json:"amount"`
	PaymentURL   string  `json:"payment_url"`
	ProviderName string  `json:"provider_name"`
}

type DonationResponse struct {
	ID                string   `json:"id"`
	ProjectID         string   `json:"project_id"`
	ProjectTitle      string   `json:"project_title,omitempty"`
	Amount            float64  `json:"amount"`
	TipAmount         float64  `json:"tip_amount,omitempty"`
	ImpactPoints      int64    `json:"impact_points"`
	Status            string   `json:"status"`
	CalculatedImpact  *float64 `json:"calculated_impact,omitempty"`
	GeneratedTextPast string   `json:"generated_text_past,omitempty"`
	CreatedAt         int64    `json:"created_at"`
}

type ImpactPreviewResponse struct {
	ProjectID        string  `json:"project_id"`
	Amount           float64 `json:"amount"`
	CalculatedImpact float64 `json:"calculated_impact"`
	ImpactPoints     int64   `json:"impact_points"`
	CTAText          string  `json:"cta_text"`
}

type PointsBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type ProjectResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	PointsMultiplier float64 `json:"points_multiplier"`
	// HasImpactData tells the browse page whether an impact preview is
	// worth requesting for this project.
	HasImpactData bool `json:"has_impact_data"`
}
