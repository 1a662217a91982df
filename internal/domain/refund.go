package domain

import "time"

// RefundStatus is the refund lifecycle state.
type RefundStatus string

const (
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
	RefundFailed     RefundStatus = "failed"
)

// Terminal reports whether the refund accepts no further transition.
func (s RefundStatus) Terminal() bool {
	return s == RefundCompleted || s == RefundFailed
}

// ValidRefundStatus reports whether s names a known refund status.
func ValidRefundStatus(s RefundStatus) bool {
	switch s {
	case RefundProcessing, RefundCompleted, RefundFailed:
		return true
	}
	return false
}

// RefundEvent is one append-only entry in a refund's timeline, kept
// most recent first.
type RefundEvent struct {
	Time    time.Time    `json:"time"`
	Message string       `json:"message"`
	Status  RefundStatus `json:"status"`
}

// Refund is created exactly once per cancelled order and is owned by it.
type Refund struct {
	ID                    string        `json:"id"`
	OrderID               string        `json:"orderId"`
	AmountCents           int64         `json:"amountCents"`
	Status                RefundStatus  `json:"status"`
	Method                string        `json:"method"`
	Reason                string        `json:"reason"`
	InitiatedAt           time.Time     `json:"initiatedAt"`
	CompletedAt           *time.Time    `json:"completedAt,omitempty"`
	EstimatedCompletionAt time.Time     `json:"estimatedCompletionAt"`
	Timeline              []RefundEvent `json:"timeline"`
}

// PrependEvent pushes an event to the front of the timeline.
func (r *Refund) PrependEvent(e RefundEvent) {
	r.Timeline = append([]RefundEvent{e}, r.Timeline...)
}

// Clone deep-copies the refund.
func (r Refund) Clone() Refund {
	out := r
	out.Timeline = append([]RefundEvent(nil), r.Timeline...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
