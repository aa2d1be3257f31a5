package constants

const (
	AppCartService    = "cart-service"
	AppProductService = "product-service"
	AppOrderService   = "order-service"
	AppStockListener  = "stock-listener"
	AppStorefront     = "storefront"

	AudienceSession = "storefront-session"
)

// ChannelStockDecrement is the redis pub/sub channel the order service
// publishes stock decrements on after a successful checkout.
const ChannelStockDecrement = "storefront.stock-decrement"

// KeyCartNamespace is the fixed namespace cart state is persisted under.
const KeyCartNamespace = "storefront:cart:"
