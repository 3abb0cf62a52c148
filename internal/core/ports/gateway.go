package ports

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

import "context"

// PaymentStatusCaptured is the only gateway payment status that completes a donation.
const PaymentStatusCaptured = "captured"

// PaymentGateway is the remote payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentRef string) (*GatewayPayment, error)
}

// OrderRequest asks the gateway for a new order. Amount is in minor units.
type OrderRequest struct {
	Amount      int64
	Currency    string
	Receipt     string
	AutoCapture bool
}

// GatewayOrder is the order as created by the gateway.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// GatewayPayment is the gateway's view of a payment attempt.
type GatewayPayment struct {
	ID       string
	OrderID  string
	Amount   int64
	Currency string
	Status   string
	Method   string
	Email    string
	Contact  string
}
