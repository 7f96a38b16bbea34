package core

import "context"

// clientInfo is where a request came from, recorded on audit entries.
type clientInfo struct {
	ip        string
	userAgent string
}

type clientInfoKey struct{}

// WithClientInfo returns a copy of ctx carrying the client IP and User-Agent.
func WithClientInfo(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, clientInfo{ip: ip, userAgent: userAgent})
}

// ClientInfo returns the values stored by WithClientInfo, or empty strings.
func ClientInfo(ctx context.Context) (ip, userAgent string) {
	ci, _ := ctx.Value(clientInfoKey{}).(clientInfo)
	return ci.ip, ci.userAgent
}
