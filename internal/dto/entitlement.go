package dto

type EntitlementResponseDTO struct {
	Granted    bool   `json:"granted" example:"true"`
	AccessType string `json:"access_type,omitempty" example:"subscription"`
	Reason     string `json:"reason,omitempty" example:"no_active_subscription"`
}
