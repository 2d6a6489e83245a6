package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/config"
	"github.com/blackwell-systems/cartlift/internal/fetch"
	"github.com/blackwell-systems/cartlift/internal/output"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the transaction dataset into the local cache",
	Long: `Download the configured transaction dataset and keep it in the local cache.

The source may be an http(s) URL, an s3://bucket/key URI or a local file.
A dataset that is already cached is not downloaded again; delete the cached
file to force a fresh download. 'cartlift train' fetches automatically, so
this command is only needed to prime the cache ahead of time.`,
	Example: `  # Fetch the default UCI Online Retail II workbook
  cartlift fetch

  # Fetch from S3-compatible storage
  CARTLIFT_DATA__SOURCE=s3://datasets/online_retail.csv cartlift fetch`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	c, err := getConfig()
	if err != nil {
		return err
	}

	res, err := fetchDataset(commandContext(cmd), c)
	if err != nil {
		return err
	}

	switch {
	case res.Downloaded:
		fmt.Printf("Downloaded %s to %s\n", humanize.Bytes(uint64(res.Bytes)), res.Path)
	case res.Path == c.Data.Source:
		fmt.Printf("Using local dataset %s\n", res.Path)
	default:
		fmt.Printf("Dataset already cached at %s (%s)\n", res.Path, humanize.Bytes(uint64(res.Bytes)))
	}
	return nil
}

// fetchDataset makes the configured source available locally, drawing a
// progress bar on stderr while downloading.
func fetchDataset(ctx context.Context, c *config.Config) (*fetch.Result, error) {
	var bar *output.ProgressBar
	opts := fetch.Options{
		S3Region:          c.Data.S3Region,
		S3Endpoint:        c.Data.S3Endpoint,
		S3PathStyle:       c.Data.S3PathStyle,
		S3AccessKeyID:     c.Data.S3AccessKeyID,
		S3SecretAccessKey: c.Data.S3SecretAccessKey,
		Progress: func(total int64) io.Writer {
			bar = output.NewProgress(total, "Downloading dataset")
			return bar
		},
	}

	res, err := fetch.Fetch(ctx, c.Data.Source, c.CachePath(), opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
