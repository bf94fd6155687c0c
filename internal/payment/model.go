package payment

import "time"

// Payment is an append-only ledger row attached to exactly one booking or
// one subscription. Balances are always recomputed from the ledger sum,
// never trusted from the client.
type Payment struct {
	ID             int       `db:"id" json:"id"`
	BookingID      *int      `db:"booking_id" json:"booking_id,omitempty"`
	SubscriptionID *int      `db:"subscription_id" json:"subscription_id,omitempty"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	Mode           string    `db:"mode" json:"mode"`
	RecordedBy     int       `db:"recorded_by" json:"recorded_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type AddRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Mode        string `json:"mode" binding:"required"`
}

// Receipt is the payment plus the parent's recomputed money state.
type Receipt struct {
	Payment       *Payment `json:"payment"`
	TotalCents    int64    `json:"total_cents"`
	PaidCents     int64    `json:"paid_cents"`
	BalanceCents  int64    `json:"balance_cents"`
	PaymentStatus string   `json:"payment_status"`
}
