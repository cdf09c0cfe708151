// Package metrics defines the custom Prometheus metrics of the profiles API.
// All metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "profiles"

// AccountsCreatedTotal counts accounts created through the API.
// Label:
//   - kind: "user" or "superuser"
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by kind.",
	},
	[]string{"kind"},
)

// AccountCreateErrorsTotal counts rejected account creations.
// Label:
//   - reason: "validation", "exists" or "internal"
var AccountCreateErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_create_errors_total",
		Help:      "Total number of failed account creations, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts credential checks.
// Label:
//   - result: "success", "invalid" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
