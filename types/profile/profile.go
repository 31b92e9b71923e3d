package profile

// ProfileRequest holds the editable profile fields. Phone is not editable.
type ProfileRequest struct {
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Village     *string `json:"village,omitempty" validate:"omitempty,max=100"`
	District    *string `json:"district,omitempty" validate:"omitempty,max=100"`
	State       *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	FarmDetails *string `json:"farm_details,omitempty" validate:"omitempty,max=2000"`
}
