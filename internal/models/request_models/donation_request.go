package request_models

type CreateDonationRequest struct {
	ProjectID string  `json:"project_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	TipAmount float64 `json:"tip_amount" binding:"gte=0"`
}
