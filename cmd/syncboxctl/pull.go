package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medcrm/syncbox"
	"github.com/medcrm/syncbox/clinic"
	"github.com/medcrm/syncbox/sqlite"
)

func init() {
	rootCmd.AddCommand(pullCmd)
}

var pullCmd = &cobra.Command{
	Use:       "pull [domain]",
	Short:     "Run a reconciliation pull for one domain",
	Long:      "Fetch the authoritative server listing for a domain and replace the local cache with it.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{clinic.DomainMessages, clinic.DomainTemplates, clinic.DomainParties, clinic.DomainSGK},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		domain := args[0]
		if err := pullDomain(cmd.Context(), a, domain); err != nil {
			return err
		}

		fmt.Printf("Pulled %s\n", domain)

		return nil
	},
}

func pullDomain(ctx context.Context, a *app, domain string) error {
	deps := clinic.Deps{
		Store:     a.store,
		Transport: a.transport,
		Bus:       a.bus,
		Monitor:   a.monitor,
	}

	switch domain {
	case clinic.DomainMessages:
		return pullOne(ctx, a, domain, func(cache syncbox.Cache[clinic.Message]) puller {
			return clinic.NewMessageService(cache, deps)
		})
	case clinic.DomainTemplates:
		return pullOne(ctx, a, domain, func(cache syncbox.Cache[clinic.Template]) puller {
			return clinic.NewTemplateService(cache, deps)
		})
	case clinic.DomainParties:
		return pullOne(ctx, a, domain, func(cache syncbox.Cache[clinic.Party]) puller {
			return clinic.NewPartyService(cache, deps)
		})
	case clinic.DomainSGK:
		return pullOne(ctx, a, domain, func(cache syncbox.Cache[clinic.SGKDocument]) puller {
			return clinic.NewSGKDocumentService(cache, deps)
		})
	default:
		return fmt.Errorf("unknown domain %q", domain)
	}
}

type puller interface {
	Pull(ctx context.Context) error
}

func pullOne[T syncbox.Entity](ctx context.Context, a *app, domain string, build func(syncbox.Cache[T]) puller) error {
	cache, err := sqlite.NewCache[T](a.db, domain)
	if err != nil {
		return err
	}
	if err := cache.Init(ctx); err != nil {
		return err
	}

	return build(cache).Pull(ctx)
}
