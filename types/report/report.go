package report

// UpsertReportRequest is the admin payload for creating or updating a soil report.
type UpsertReportRequest struct {
	TrackingID      string   `json:"tracking_id" validate:"required,max=32"`
	Status          string   `json:"status" validate:"required,oneof=pending in_process completed"`
	PHLevel         *float64 `json:"ph_level,omitempty" validate:"omitempty,gte=0,lte=14"`
	Nitrogen        *float64 `json:"nitrogen,omitempty" validate:"omitempty,gte=0"`
	Phosphorus      *float64 `json:"phosphorus,omitempty" validate:"omitempty,gte=0"`
	Potassium       *float64 `json:"potassium,omitempty" validate:"omitempty,gte=0"`
	OrganicCarbon   *float64 `json:"organic_carbon,omitempty" validate:"omitempty,gte=0"`
	Recommendations string   `json:"recommendations,omitempty" validate:"max=5000"`
	PdfURL          string   `json:"pdf_url,omitempty" validate:"omitempty,url"`
	// DraftRecommendations asks the advisor to write recommendations when none are given.
	DraftRecommendations bool `json:"draft_recommendations,omitempty"`
}

func (UpsertReportRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"tracking_id.required": "Tracking ID is required",
		"status":               "Invalid report status",
		"ph_level":             "pH must be between 0 and 14",
	}
}
