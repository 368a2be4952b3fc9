// Package exchange provides the "get_exchange_rates" tool, backed by the
// exchangerate-api.com v4 "latest" endpoint. No API key is required.
//
// Only a fixed set of popular currencies is reported, always in the same
// order; see [PopularCurrencies].
package exchange
