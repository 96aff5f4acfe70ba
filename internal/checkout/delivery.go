package checkout

import "github.com/shopspring/decimal"

type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPostal  DeliveryMethod = "postal"
	DeliveryPickup  DeliveryMethod = "pickup"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// wireValue maps the delivery enum onto the value the backend expects. The
// postal carrier travels as "post" on the wire.
func (m DeliveryMethod) wireValue() string {
	if m == DeliveryPostal {
		return "post"
	}
	return string(m)
}

func (m DeliveryMethod) valid() bool {
	switch m {
	case DeliveryCourier, DeliveryPostal, DeliveryPickup:
		return true
	}
	return false
}

func (m PaymentMethod) valid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentOnline:
		return true
	}
	return false
}

var (
	freeDeliveryThreshold = decimal.NewFromInt(2000)

	deliveryCosts = map[DeliveryMethod]decimal.Decimal{
		DeliveryCourier: decimal.NewFromInt(150),
		DeliveryPostal:  decimal.NewFromInt(80),
		DeliveryPickup:  decimal.Zero,
	}

	defaultDeliveryCost = decimal.NewFromInt(150)
)

// DeliveryCost prices the chosen carrier. Orders at or above the free
// threshold ship free unless picked up in store, where cost is already zero.
func DeliveryCost(itemsTotal decimal.Decimal, method DeliveryMethod) decimal.Decimal {
	if itemsTotal.GreaterThanOrEqual(freeDeliveryThreshold) && method != DeliveryPickup {
		return decimal.Zero
	}
	if cost, ok := deliveryCosts[method]; ok {
		return cost
	}
	return defaultDeliveryCost
}

// OrderTotal is the items subtotal plus the delivery cost for the carrier.
func OrderTotal(itemsTotal decimal.Decimal, method DeliveryMethod) decimal.Decimal {
	return itemsTotal.Add(DeliveryCost(itemsTotal, method))
}
