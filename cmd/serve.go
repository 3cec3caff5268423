package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tutils/pdgen/counter"
	"github.com/tutils/pdgen/counter/period"
	"github.com/tutils/pdgen/logger"
	"github.com/tutils/pdgen/resp"
	"github.com/tutils/pdgen/stream"
	"golang.org/x/sync/errgroup"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sequences over WebSocket and the Redis protocol",
	Long: `Serve sequences to remote consumers. An empty address disables a server, For example:
  pdgen serve --ws-listen=ws://0.0.0.0:8080/stream --resp-listen=0.0.0.0:6380 --seed=3
  pdgen serve --resp-listen=`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, "ws-listen", "resp-listen", "chunk"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

const rateLogPeriod = time.Second * 10

func serve(ctx context.Context) error {
	log := *logger.Log()
	cnt := period.NewPeriodCounter(time.Second)

	wsAddr := viper.GetString("ws-listen")
	respAddr := viper.GetString("resp-listen")
	if wsAddr == "" && respAddr == "" {
		return errors.New("nothing to serve: both listen addresses are empty")
	}

	g, ctx := errgroup.WithContext(ctx)

	if wsAddr != "" {
		ws, err := stream.NewServer(
			stream.WithListenAddress(wsAddr),
			stream.WithChunk(viper.GetInt("chunk")),
			stream.WithLogger(log.With().Str("server", "stream").Logger()),
			stream.WithCounter(cnt),
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := ws.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ws.Shutdown(shutdownCtx)
		})
	}

	if respAddr != "" {
		opts := []resp.ServerOption{
			resp.WithListenAddress(respAddr),
			resp.WithLogger(log.With().Str("server", "resp").Logger()),
			resp.WithCounter(cnt),
		}
		if viper.GetInt64("seed") >= 0 {
			seed, err := seedFromConfig()
			if err != nil {
				return err
			}
			opts = append(opts, resp.WithSeed(seed))
		}
		rs, err := resp.NewServer(opts...)
		if err != nil {
			return err
		}
		closed := make(chan struct{})
		g.Go(func() error {
			err := rs.ListenAndServe()
			select {
			case <-closed:
				return nil
			default:
				return err
			}
		})
		g.Go(func() error {
			<-ctx.Done()
			close(closed)
			return rs.Close()
		})
	}

	g.Go(func() error {
		logRate(ctx, cnt)
		return nil
	})

	return g.Wait()
}

// logRate reports the draw rate while variates are being produced.
func logRate(ctx context.Context, c counter.Counter) {
	ticker := time.NewTicker(rateLogPeriod)
	defer ticker.Stop()
	var last int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v := c.Value()
			if v == last {
				continue
			}
			last = v
			logger.Log().Info().
				Int64("total", v).
				Int64("per_sec", c.RatePerSec()).
				Msg("variates produced")
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("ws-listen", stream.DefaultListenAddress, "websocket stream listen address")
	flags.String("resp-listen", resp.DefaultListenAddress, "redis protocol listen address")
	flags.Int("chunk", stream.DefaultChunk, "largest number of values in one stream message")
}
