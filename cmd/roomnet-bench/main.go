// roomnet-bench is a load generator for relay backends. It connects a fleet
// of clients to a backend (or an in-process one when no URL is given), puts
// them in a single room and measures relay throughput.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/roomnet"
	"github.com/luciancaetano/roomnet/lobby"
	"github.com/luciancaetano/roomnet/relaytest"
)

type benchOptions struct {
	url         string
	game        string
	clients     int
	duration    time.Duration
	rate        float64
	metricsAddr string
}

func main() {
	// Local overrides for ROOMNET_URL and friends; absence is fine.
	godotenv.Load()

	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "roomnet-bench",
		Short: "Load generator for roomnet relay backends",
		Long: `roomnet-bench connects a fleet of clients to a relay backend, gathers
them in one room and drives broadcast relay traffic at a fixed per-client
rate. When no --url is given it starts an in-process backend, which makes it
a self-contained smoke test for the client library.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", os.Getenv("ROOMNET_URL"), "backend websocket URL (empty starts an in-process backend)")
	flags.StringVar(&opts.game, "game", "bench", "game namespace used for room tag scoping")
	flags.IntVar(&opts.clients, "clients", 8, "number of clients to connect")
	flags.DurationVar(&opts.duration, "duration", 10*time.Second, "how long to generate traffic")
	flags.Float64Var(&opts.rate, "rate", 20, "relay frames per second per client")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve the in-process backend's prometheus metrics on this address")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBench(ctx context.Context, opts *benchOptions) error {
	if opts.clients < 2 {
		return errors.New("at least 2 clients are required to relay anything")
	}

	log := slog.Default()
	url := opts.url

	if url == "" {
		srv := relaytest.New(&relaytest.Config{RateLimit: relaytest.NoRateLimit(), Logger: log})
		defer srv.Close()
		url = srv.URL()
		log.Info("started in-process backend", "url", url)

		if opts.metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", srv.MetricsHandler())
			go func() {
				if err := http.ListenAndServe(opts.metricsAddr, mux); err != nil {
					log.Error("metrics server failed", "error", err)
				}
			}()
			log.Info("serving metrics", "addr", opts.metricsAddr)
		}
	} else if opts.metricsAddr != "" {
		log.Warn("--metrics-addr only applies to the in-process backend, ignoring")
	}

	var received atomic.Int64

	clients := make([]roomnet.Client, opts.clients)
	for i := range clients {
		cfg := lobby.DefaultConfig(url, opts.game)
		cfg.Logger = log
		client := lobby.New(cfg)

		assigned := awaitEvent(client, roomnet.EventAssignedID)
		client.On(roomnet.EventRelay, func(roomnet.Event) { received.Add(1) })
		client.On(roomnet.EventError, func(ev roomnet.Event) {
			log.Warn("backend error", "message", ev.Message)
		})

		if err := client.Connect(ctx); err != nil {
			return fmt.Errorf("connecting client %d: %w", i, err)
		}
		defer client.Disconnect()

		if _, err := waitEvent(assigned); err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}
		clients[i] = client
	}
	log.Info("clients connected", "count", opts.clients)

	// The first client hosts; everyone else joins its room.
	host := clients[0]
	created := awaitEvent(host, roomnet.EventRoomCreated)
	if err := host.CreateRoom(nil, opts.clients, false, nil); err != nil {
		return fmt.Errorf("creating room: %w", err)
	}
	room, err := waitEvent(created)
	if err != nil {
		return fmt.Errorf("creating room: %w", err)
	}

	for i, client := range clients[1:] {
		joined := awaitEvent(client, roomnet.EventRoomJoined)
		if err := client.JoinRoom(room.RoomID); err != nil {
			return fmt.Errorf("joining client %d: %w", i+1, err)
		}
		if _, err := waitEvent(joined); err != nil {
			return fmt.Errorf("client %d: %w", i+1, err)
		}
	}
	log.Info("room assembled", "room_id", room.RoomID)

	runCtx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	var sent atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for _, client := range clients {
		wg.Add(1)
		go func(client roomnet.Client) {
			defer wg.Done()

			limiter := rate.NewLimiter(rate.Limit(opts.rate), 1)
			seq := 0
			for {
				if err := limiter.Wait(runCtx); err != nil {
					return
				}
				seq++
				if err := client.SendRelay(map[string]any{"seq": seq}); err != nil {
					log.Warn("relay failed", "error", err)
					return
				}
				sent.Add(1)
			}
		}(client)
	}

	wg.Wait()
	// Let in-flight frames drain before reading the counters.
	time.Sleep(500 * time.Millisecond)
	elapsed := time.Since(start)

	totalSent := sent.Load()
	totalReceived := received.Load()
	// Every frame fans out to all other room members.
	expected := totalSent * int64(opts.clients-1)

	fmt.Printf("clients:        %d\n", opts.clients)
	fmt.Printf("duration:       %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("frames sent:    %d (%.1f/s)\n", totalSent, float64(totalSent)/elapsed.Seconds())
	deliveryPct := 0.0
	if expected > 0 {
		deliveryPct = 100 * float64(totalReceived) / float64(expected)
	}
	fmt.Printf("frames recv:    %d of %d expected (%.1f%%)\n", totalReceived, expected, deliveryPct)
	fmt.Printf("recv rate:      %.1f/s\n", float64(totalReceived)/elapsed.Seconds())

	return nil
}

// awaitEvent captures the next event of a kind into a buffered channel. It
// must be registered before the command that triggers the event is sent.
func awaitEvent(client roomnet.Client, kind roomnet.EventKind) <-chan roomnet.Event {
	ch := make(chan roomnet.Event, 1)
	client.On(kind, func(ev roomnet.Event) {
		select {
		case ch <- ev:
		default:
		}
	})
	return ch
}

func waitEvent(ch <-chan roomnet.Event) (roomnet.Event, error) {
	select {
	case ev := <-ch:
		return ev, nil
	case <-time.After(10 * time.Second):
		return roomnet.Event{}, errors.New("timed out waiting for backend reply")
	}
}
