package dto

import "time"

type CreateSubscriptionRequestDTO struct {
	TeacherID         int     `json:"teacher_id" example:"3"`
	DurationMonths    int     `json:"duration_months" example:"1"`
	PaymentMethod     string  `json:"payment_method" example:"cash"`
	Amount            float64 `json:"amount" example:"2000"`
	VideosAccess      bool    `json:"videos_access" example:"true"`
	LivesAccess       bool    `json:"lives_access" example:"false"`
	SchoolEntryAccess bool    `json:"school_entry_access" example:"false"`
}

type ExtendSubscriptionRequestDTO struct {
	DurationMonths int    `json:"duration_months" example:"1"`
	Reason         string `json:"reason,omitempty" example:"manual renewal"`
}

type CancelSubscriptionRequestDTO struct {
	Reason string `json:"reason,omitempty" example:"student request"`
}

type SubscriptionResponseDTO struct {
	ID                int        `json:"id" example:"1"`
	UserID            int        `json:"user_id" example:"42"`
	TeacherID         int        `json:"teacher_id" example:"3"`
	Amount            float64    `json:"amount" example:"2000"`
	VideosAccess      bool       `json:"videos_access" example:"true"`
	LivesAccess       bool       `json:"lives_access" example:"false"`
	SchoolEntryAccess bool       `json:"school_entry_access" example:"false"`
	StartsAt          time.Time  `json:"starts_at"`
	EndsAt            time.Time  `json:"ends_at"`
	ActivatedAt       *time.Time `json:"activated_at,omitempty"`
	Status            string     `json:"status" example:"active"`
}

type PurchaseResponseDTO struct {
	Subscription SubscriptionResponseDTO `json:"subscription"`
	Payment      PaymentResponseDTO      `json:"payment"`
}

type SweepResponseDTO struct {
	Expired int64 `json:"expired" example:"7"`
}
