package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	chiTransport "github.com/kailas-cloud/bizlist/internal/transport/chi"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

type listOptions struct {
	category, tag, chain string
	hasPhoto             bool
	limit                int
	random               bool
	orderBy, order       string
}

var listFlags listOptions

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Run one listing and print it as JSON",
	Long: `Runs the same listing as GET /businesses (or /rand-businesses with --random)
against the configured store.

Examples:
  bizlist list --category defi --limit 5
  bizlist list --tag nft --has-photo --random --limit 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		q, err := listQueryFromFlags(cmd)
		if err != nil {
			return err
		}

		store, err := openStore(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, err := newListingService(store, cfg)
		if err != nil {
			return err
		}
		rows, err := svc.List(ctx, q)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(chiTransport.RowsToResponse(rows))
	},
}

func listQueryFromFlags(cmd *cobra.Command) (listinguc.Query, error) {
	raw := map[string]any{}
	if cmd.Flags().Changed("category") {
		raw[string(filter.Category)] = listFlags.category
	}
	if cmd.Flags().Changed("tag") {
		raw[string(filter.Tag)] = listFlags.tag
	}
	if cmd.Flags().Changed("chain") {
		raw[string(filter.Chain)] = listFlags.chain
	}
	if cmd.Flags().Changed("has-photo") {
		raw[string(filter.HasPhoto)] = listFlags.hasPhoto
	}
	set, err := filter.New(raw)
	if err != nil {
		return listinguc.Query{}, err
	}

	q := listinguc.Query{Filters: set, Limit: listFlags.limit, Sample: listFlags.random}
	if !listFlags.random {
		q.Order, err = selection.ParseOrder(listFlags.orderBy, listFlags.order)
		if err != nil {
			return listinguc.Query{}, err
		}
	}
	return q, nil
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.category, "category", "", "exact category")
	f.StringVar(&listFlags.tag, "tag", "", "tag or type")
	f.StringVar(&listFlags.chain, "chain", "", "blockchain")
	f.BoolVar(&listFlags.hasPhoto, "has-photo", false, "only businesses with at least one photo")
	f.IntVar(&listFlags.limit, "limit", 0, "maximum number of businesses (required)")
	f.BoolVar(&listFlags.random, "random", false, "random sample instead of ordered listing")
	f.StringVar(&listFlags.orderBy, "order-by", "id", "id, name or created_at")
	f.StringVar(&listFlags.order, "order", "asc", "asc or desc")
	_ = listCmd.MarkFlagRequired("limit")
	rootCmd.AddCommand(listCmd)
}
