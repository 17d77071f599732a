package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrTenant  = attribute.Key("tenant")
	AttrSource  = attribute.Key("source")
	AttrReason  = attribute.Key("reason")
	AttrEnabled = attribute.Key("enabled")
)

// StorefrontMetrics counts cart and view-only activity
type StorefrontMetrics struct {
	meter          metric.Meter
	cartAdds       *Counter
	suppressedAdds *Counter
	viewOnly       *Counter
}

// NewStorefrontMetrics registers the storefront instruments on meter
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &StorefrontMetrics{meter: meter}

	var err error
	if m.cartAdds, err = NewCounter(meter, "storefront.cart.add.total",
		"Products added to a cart", "{item}"); err != nil {
		return nil, err
	}
	if m.suppressedAdds, err = NewCounter(meter, "storefront.cart.add.suppressed.total",
		"Add-to-cart attempts refused by a purchasing restriction", "{attempt}"); err != nil {
		return nil, err
	}
	if m.viewOnly, err = NewCounter(meter, "storefront.view_only.toggle.total",
		"View-only mode toggles", "{toggle}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCartAdd counts quantity units added for tenant from a live or fallback source
func (m *StorefrontMetrics) RecordCartAdd(ctx context.Context, tenant, source string, quantity int) {
	if m == nil {
		return
	}
	m.cartAdds.Add(ctx, int64(quantity), AttrTenant.String(tenant), AttrSource.String(source))
}

// RecordSuppressedAdd counts a refused add with its reason
func (m *StorefrontMetrics) RecordSuppressedAdd(ctx context.Context, tenant, reason string) {
	if m == nil {
		return
	}
	m.suppressedAdds.Inc(ctx, AttrTenant.String(tenant), AttrReason.String(reason))
}

// RecordViewOnlyToggle counts a view-only flip
func (m *StorefrontMetrics) RecordViewOnlyToggle(ctx context.Context, enabled bool) {
	if m == nil {
		return
	}
	m.viewOnly.Inc(ctx, AttrEnabled.Bool(enabled))
}

// ObserveActiveSessions reports count() as the storefront.sessions.active gauge on every collection
func (m *StorefrontMetrics) ObserveActiveSessions(count func() int64) error {
	if m == nil {
		return nil
	}
	_, err := m.meter.Int64ObservableGauge("storefront.sessions.active",
		metric.WithDescription("Sessions currently holding carts"),
		metric.WithUnit("{session}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(count())
			return nil
		}),
	)
	return err
}
