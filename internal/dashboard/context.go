package dashboard

import "context"

type ctxKey string

const dashboardKey ctxKey = "dashboard"

func WithDashboard(ctx context.Context, d *Dashboard) context.Context {
	return context.WithValue(ctx, dashboardKey, d)
}

// FromContext returns the dashboard bound to ctx. Calling it outside a
// WithDashboard scope is a programming error and panics.
func FromContext(ctx context.Context) *Dashboard {
	d, ok := ctx.Value(dashboardKey).(*Dashboard)
	if !ok || d == nil {
		panic("dashboard: FromContext must be used within a WithDashboard scope")
	}
	return d
}
