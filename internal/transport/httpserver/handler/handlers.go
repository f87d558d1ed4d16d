package handler

import (
	"net/http"

	"naat/internal/config"
	contributionsdomain "naat/internal/domain/contributions"
	groupsdomain "naat/internal/domain/groups"
	payoutsdomain "naat/internal/domain/payouts"
	"naat/pkg/logger"
)

type Handlers struct {
	Groups        *groupsdomain.Service
	Contributions *contributionsdomain.Service
	Payouts       *payoutsdomain.Service
	pagination    config.PaginationConfig
	log           logger.Logger
}

func New(groups *groupsdomain.Service, contributions *contributionsdomain.Service, payouts *payoutsdomain.Service, pagination config.PaginationConfig, log logger.Logger) *Handlers {
	return &Handlers{
		Groups:        groups,
		Contributions: contributions,
		Payouts:       payouts,
		pagination:    pagination,
		log:           log,
	}
}

// logger prefers the request-scoped logger so entries carry the request id.
func (h *Handlers) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
