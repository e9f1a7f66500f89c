package service

import "github.com/GoTitans/titangate/internal/model"

// Venue identifiers. Enterprise inherits the Pro set and may add more via
// per-tenant config; no entitlement field is ever settable independently of
// the tier.
var (
	freeVenues = []string{"binance"}
	proVenues  = []string{"binance", "coinbase", "kraken"}
)

// ResolveEntitlement maps a plan tier to its capability set. Pure and
// total: entitlement is derived on demand, never stored on the tenant, so a
// plan transition is reflected on the very next request.
func ResolveEntitlement(plan model.PlanTier) model.Entitlement {
	switch plan {
	case model.PlanPro:
		return model.Entitlement{
			MaxTradesPerDay:         1000,
			MaxConcurrentStrategies: 5,
			LiveTrading:             true,
			AllowedVenues:           append([]string(nil), proVenues...),
		}
	case model.PlanEnterprise:
		return model.Entitlement{
			MaxTradesPerDay:         10000,
			MaxConcurrentStrategies: 20,
			LiveTrading:             true,
			AllowedVenues:           append([]string(nil), proVenues...),
		}
	default:
		return model.Entitlement{
			MaxTradesPerDay:         10,
			MaxConcurrentStrategies: 1,
			LiveTrading:             false,
			AllowedVenues:           append([]string(nil), freeVenues...),
		}
	}
}

// AllowedVenues returns the venue set for a tenant: the tier's venues, plus
// config-listed extras for Enterprise only.
func AllowedVenues(t *model.Tenant) []string {
	ent := ResolveEntitlement(t.Plan)
	if t.Plan != model.PlanEnterprise {
		return ent.AllowedVenues
	}
	return append(ent.AllowedVenues, t.ConfigList("extra_venues")...)
}

// VenueAllowed reports whether the tenant may route to the given venue.
func VenueAllowed(t *model.Tenant, venue string) bool {
	for _, v := range AllowedVenues(t) {
		if v == venue {
			return true
		}
	}
	return false
}
