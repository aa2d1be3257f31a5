package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/verdantis/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.AppCartService)
