package cli_test

import (
	"testing"

	"github.com/briefwise/briefwise/pkg/cli"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestGetIndexConfig(t *testing.T) {
	t.Run("feed entries index without prefix", func(t *testing.T) {
		cfg := cli.GetIndexConfig("")
		gt.NoError(t, cfg.Validate())
		gt.Value(t, cli.CollectionNames(cfg)).Equal([]string{"feed_entries"})

		gt.Array(t, cfg.Collections[0].Indexes).Length(1).Required()
		gt.Value(t, cfg.Collections[0].Indexes[0].Fields).Equal([]fireconf.IndexField{
			{Path: "published_at", Order: fireconf.OrderDescending},
			{Path: "id", Order: fireconf.OrderAscending},
		})
	})

	t.Run("prefix is applied to collection names", func(t *testing.T) {
		cfg := cli.GetIndexConfig("staging")
		gt.NoError(t, cfg.Validate())
		gt.Value(t, cli.CollectionNames(cfg)).Equal([]string{"staging_feed_entries"})
	})
}
