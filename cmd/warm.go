package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/guestbites/guestbites/internal/guide"
)

var (
	warmServer      string
	warmConcurrency int
)

var warmCmd = &cobra.Command{
	Use:   "warm <zip>...",
	Short: "Prefetch places for ZIP codes on a running server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := warmServer
		if base == "" {
			base = cfg.Server.Origin
		}
		res, err := warmZips(cmd.Context(), &http.Client{Timeout: 30 * time.Second}, base, args, warmConcurrency)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "warmed %d zip(s), %d failed\n", res.OK, res.Failed)
		return nil
	},
}

type warmResult struct {
	OK     int64
	Failed int64
}

// warmZips requests /places for each zip. Individual failures are logged
// and counted; only invalid input aborts the run.
func warmZips(ctx context.Context, hc *http.Client, base string, zips []string, concurrency int) (*warmResult, error) {
	for _, z := range zips {
		if !guide.ValidZip(strings.TrimSpace(z)) {
			return nil, eris.Errorf("invalid zip %q", z)
		}
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	base = strings.TrimRight(base, "/")

	var ok, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, z := range zips {
		zip := strings.TrimSpace(z)
		g.Go(func() error {
			log := zap.L().With(zap.String("zip", zip))
			if err := warmOne(gctx, hc, base, zip); err != nil {
				log.Warn("warm failed", zap.Error(err))
				failed.Add(1)
				return nil
			}
			log.Info("warmed")
			ok.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &warmResult{OK: ok.Load(), Failed: failed.Load()}, nil
}

func warmOne(ctx context.Context, hc *http.Client, base, zip string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/places?zip="+url.QueryEscape(zip), nil)
	if err != nil {
		return eris.Wrap(err, "warm: create request")
	}
	resp, err := hc.Do(req)
	if err != nil {
		return eris.Wrap(err, "warm: send request")
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("warm: status %d", resp.StatusCode)
	}
	return nil
}

func init() {
	warmCmd.Flags().StringVar(&warmServer, "server", "", "server base URL (default server.origin)")
	warmCmd.Flags().IntVar(&warmConcurrency, "concurrency", 4, "parallel requests")
	rootCmd.AddCommand(warmCmd)
}
