package payment

import (
	"context"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog"
)

// Session describes a hosted checkout for one course purchase.
type Session struct {
	OrderID       string
	Amount        int64
	ItemName      string
	CustomerName  string
	CustomerEmail string
}

// SessionResult carries the gateway token and the URL the buyer is sent to.
type SessionResult struct {
	Token       string
	RedirectURL string
}

// Gateway creates hosted payment sessions. Implementations must be safe for
// concurrent use.
type Gateway interface {
	CreateSession(ctx context.Context, session Session) (SessionResult, error)
}

// MidtransGateway implements Gateway on the Midtrans Snap API.
type MidtransGateway struct {
	client snap.Client
	logger zerolog.Logger
}

// NewMidtransGateway constructs a Snap-backed gateway.
func NewMidtransGateway(serverKey string, production bool, logger zerolog.Logger) (*MidtransGateway, error) {
	if serverKey == "" {
		return nil, fmt.Errorf("midtrans server key must be provided")
	}

	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	return &MidtransGateway{
		client: client,
		logger: logger.With().Str("component", "midtrans").Logger(),
	}, nil
}

// CreateSession builds a Snap transaction and returns its redirect URL.
// The Snap client has no context support, so ctx is unused.
func (g *MidtransGateway) CreateSession(_ context.Context, session Session) (SessionResult, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  session.OrderID,
			GrossAmt: session.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: session.CustomerName,
			Email: session.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    session.OrderID,
			Name:  itemName(session.ItemName),
			Price: session.Amount,
			Qty:   1,
		}},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to create payment session: %w", err)
	}

	g.logger.Info().Str("order_id", session.OrderID).Msg("payment session created")
	return SessionResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// itemName trims the display name to the gateway's 50 character limit.
func itemName(name string) string {
	if len(name) > 50 {
		return name[:50]
	}
	return name
}
