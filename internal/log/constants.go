package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyConfig        = "config"
	KeySessionID     = "sessionId"
	KeyCouponCode    = "couponCode"
	KeyOrderID       = "orderId"
	KeyProductID     = "productId"
	KeyVariantID     = "variantId"
	KeyQuantity      = "quantity"
	KeySubtotal      = "subtotal"
	KeyDbURL         = "dbUrl"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
)
