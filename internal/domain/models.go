package domain

import "time"

const (
	PaymentStatusPending   string = "pending"
	PaymentStatusCompleted string = "completed"
	PaymentStatusFailed    string = "failed"
	PaymentStatusCancelled string = "cancelled"
)

const (
	PaymentMethodCash   string = "cash"
	PaymentMethodOnline string = "online"
)

// Canonical webhook event statuses; provider vocabularies are mapped onto these.
const (
	EventStatusSuccess string = "success"
	EventStatusFailed  string = "failed"
	EventStatusPending string = "pending"
)

const (
	SubscriptionStatusPending   string = "pending"
	SubscriptionStatusActive    string = "active"
	SubscriptionStatusExpired   string = "expired"
	SubscriptionStatusCancelled string = "cancelled"
	SubscriptionStatusRejected  string = "rejected"
)

const (
	AccessVideos      string = "videos"
	AccessLives       string = "lives"
	AccessSchoolEntry string = "school_entry"
)

const (
	AccessTypeFree         string = "free"
	AccessTypeSubscription string = "subscription"
	AccessTypeAdmin        string = "admin"
)

const (
	ReasonNoActiveSubscription string = "no_active_subscription"
	ReasonAccessFlagMissing    string = "access_flag_missing"
)

const (
	RoleUser  string = "user"
	RoleStaff string = "staff"
	RoleAdmin string = "admin"
)

type User struct {
	ID      int     `db:"id"`
	Role    string  `db:"role"`
	Balance float64 `db:"balance"`
}

// Teacher is owned by the platform schema; this core only reads it.
type Teacher struct {
	ID        int    `db:"id"`
	Name      string `db:"name"`
	IsPremium bool   `db:"is_premium"`
}

type PaymentRecord struct {
	ID              int        `db:"id"`
	ExternalTxID    *string    `db:"external_transaction_id"`
	UserID          int        `db:"user_id"`
	Amount          float64    `db:"amount"`
	Currency        string     `db:"currency"`
	Method          string     `db:"payment_method"`
	Status          string     `db:"status"`
	Reference       string     `db:"reference"`
	Provider        *string    `db:"provider"`
	RawPayload      []byte     `db:"raw_payload"`
	RejectionReason *string    `db:"rejection_reason"`
	ProcessedBy     *int       `db:"processed_by"`
	ProcessedAt     *time.Time `db:"processed_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

type Subscription struct {
	ID                int        `db:"id"`
	UserID            int        `db:"user_id"`
	TeacherID         int        `db:"teacher_id"`
	Amount            float64    `db:"amount"`
	VideosAccess      bool       `db:"videos_access"`
	LivesAccess       bool       `db:"lives_access"`
	SchoolEntryAccess bool       `db:"school_entry_access"`
	PaymentReference  *string    `db:"payment_reference"`
	StartsAt          time.Time  `db:"starts_at"`
	EndsAt            time.Time  `db:"ends_at"`
	ActivatedAt       *time.Time `db:"activated_at"`
	Status            string     `db:"status"`
	RejectionReason   *string    `db:"rejection_reason"`
	CreatedAt         time.Time  `db:"created_at"`
}

// PaymentEvent is the canonical form every provider payload is normalized into.
type PaymentEvent struct {
	ExternalTxID string
	OrderID      string
	Amount       float64
	Currency     string
	Status       string
	StatusRaw    string
	UserID       int
	Method       string
	Provider     string
	Raw          []byte
}

// ContentItem carries the access requirements of a piece of content.
// Content itself is owned by external collaborators.
type ContentItem struct {
	TeacherID      int
	Free           bool
	RequiredAccess string
}

// EntitlementDecision is derived on every access check and never persisted.
type EntitlementDecision struct {
	Granted    bool
	AccessType string
	Reason     string
}
