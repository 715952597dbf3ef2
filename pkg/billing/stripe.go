package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// Checkout starts a hosted payment session for a plan and returns the URL
// the user is redirected to.
type Checkout interface {
	CreateSession(ctx context.Context, userID, planID string) (string, error)
}

// StripeCheckout implements Checkout on Stripe hosted checkout. The API
// key is scoped to this instance, not set process-wide.
type StripeCheckout struct {
	sessions   *session.Client
	successURL string
	cancelURL  string
}

func NewStripeCheckout(apiKey, successURL, cancelURL string) (*StripeCheckout, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("billing: stripe api key required")
	}
	return &StripeCheckout{
		sessions: &session.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: apiKey,
		},
		successURL: successURL,
		cancelURL:  cancelURL,
	}, nil
}

func (c *StripeCheckout) CreateSession(ctx context.Context, userID, planID string) (string, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return "", fmt.Errorf("billing: unknown plan %q", planID)
	}
	if !plan.Pro {
		return "", fmt.Errorf("billing: plan %q needs no checkout", planID)
	}

	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(userID),
		SuccessURL:        stripe.String(c.successURL),
		CancelURL:         stripe.String(c.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(plan.PriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("InfluTools " + plan.Title),
				},
				Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripe.String("month"),
				},
			},
		}},
	}
	sess, err := c.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}
