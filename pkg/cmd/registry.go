// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"
	"strings"

	"github.com/commerceops/flowline/pkg/mailer"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/registry"
	"github.com/commerceops/flowline/pkg/steps/conditional"
	"github.com/commerceops/flowline/pkg/steps/databaseinsert"
	"github.com/commerceops/flowline/pkg/steps/databaseupdate"
	"github.com/commerceops/flowline/pkg/steps/delay"
	"github.com/commerceops/flowline/pkg/steps/filter"
	"github.com/commerceops/flowline/pkg/steps/httprequest"
	"github.com/commerceops/flowline/pkg/steps/sendemail"
	"github.com/commerceops/flowline/pkg/steps/transform"
)

// NewRegistry builds the step handler registry with all native step types.
// allowedHosts is the comma-separated HTTP host allow-list; empty disables
// the restriction.
func NewRegistry(logger *slog.Logger, store persistence.RowStore, m mailer.Mailer, allowedHosts string) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.Register(httprequest.NewFactory(parseAllowedHosts(allowedHosts)))
	reg.Register(transform.NewFactory())
	reg.Register(conditional.NewFactory())
	reg.Register(delay.NewFactory())
	reg.Register(filter.NewFactory())
	reg.Register(sendemail.NewFactory(m))
	reg.Register(databaseinsert.NewFactory(store))
	reg.Register(databaseupdate.NewFactory(store))

	return reg
}

func parseAllowedHosts(allowedHosts string) []string {
	hosts := make([]string, 0)

	for _, host := range strings.Split(allowedHosts, ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			hosts = append(hosts, host)
		}
	}

	return hosts
}
