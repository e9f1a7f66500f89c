package model

// BillingEventType identifies the subscription lifecycle transitions we act on.
// Anything else coming off the wire is ignored.
type BillingEventType string

const (
	BillingCheckoutCompleted     BillingEventType = "checkout.completed"
	BillingSubscriptionCancelled BillingEventType = "subscription.cancelled"
)

// BillingEvent is the normalized payload handed to the reconciler.
// Transport-level authenticity (provider signature) is checked upstream;
// this is data only and never an authorization channel.
type BillingEvent struct {
	Type            BillingEventType `json:"type"`
	TenantID        string           `json:"tenant_id"`
	Plan            PlanTier         `json:"plan,omitempty"`
	SubscriptionRef string           `json:"subscription_ref,omitempty"`
}
