package transport

import (
	"net/http"

	"github.com/walletgate/walletgate/pkg/api"
)

// NetworkHeaderName is the header naming the target network.
const NetworkHeaderName = "Network"

// DefaultNetwork is assumed when the header is absent.
const DefaultNetwork = "mainnet"

// DefaultAllowedNetworks lists the networks accepted by default.
var DefaultAllowedNetworks = []string{"mainnet", "rinkeby"}

// NetworkHeader returns middleware that validates the Network header
// against the allowed set. An absent header defaults to mainnet; an
// unknown value is a client error.
func NetworkHeader(allowed []string) Middleware {
	if len(allowed) == 0 {
		allowed = DefaultAllowedNetworks
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, n := range allowed {
		allowedSet[n] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			network := r.Header.Get(NetworkHeaderName)
			if network == "" {
				r.Header.Set(NetworkHeaderName, DefaultNetwork)
			} else if !allowedSet[network] {
				api.WriteError(w, api.BadRequest(api.KindInvalidRequest, "Invalid network set in the request."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
