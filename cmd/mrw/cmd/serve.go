package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/rechenwerk/internal/gateway"
	"github.com/msto63/rechenwerk/internal/rpc"
	"github.com/msto63/rechenwerk/pkg/core/config"
	"github.com/msto63/rechenwerk/pkg/core/health"
)

var serveCmd = &cobra.Command{
	Use:   "serve [http|grpc|all]",
	Short: "Startet HTTP-Gateway und/oder gRPC-Server",
	Long: `Startet die Netzwerkschnittstellen von meinRECHENWERK.

Ohne Argument werden beide Server gestartet.

Server:
  http  - REST-API und WebSocket-Sitzungen (default :8080)
  grpc  - gRPC-Dienst rechenwerk.v1.Calculator (default :9090)

Beispiele:
  mrw serve            # Beide Server starten
  mrw serve http       # Nur das HTTP-Gateway`,
	ValidArgs: []string{"http", "grpc", "all"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE:      runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	target := "all"
	if len(args) == 1 {
		target = args[0]
	}

	ctx := cmd.Context()
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg := env.config
	if env.store != nil {
		env.logger.Info("history store opened", "path", env.store.Path())
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "meinRECHENWERK")
	fmt.Fprintln(out, "==============")

	var (
		stops []func(context.Context)
		gw    *gateway.Server
	)

	if target == "http" || target == "all" {
		gcfg := gateway.DefaultConfig()
		gcfg.Host = cfg.Server.Host
		gcfg.HTTPPort = cfg.Server.HTTPPort
		gcfg.ReadTimeout = cfg.Server.ReadTimeout.Duration
		gcfg.WriteTimeout = cfg.Server.WriteTimeout.Duration
		gcfg.CORSEnabled = cfg.Server.CORS.Enabled
		if len(cfg.Server.CORS.AllowedOrigins) > 0 {
			gcfg.AllowedOrigins = cfg.Server.CORS.AllowedOrigins
		}
		gcfg.AllowedMethods = cfg.Server.CORS.AllowedMethods

		gw = gateway.New(gcfg, env.service, env.history, env.sessionOptions()...)
		registerStoreCheck(gw.HealthRegistry(), env)
		if err := gw.StartAsync(); err != nil {
			return err
		}
		stops = append(stops, func(ctx context.Context) {
			if err := gw.Stop(ctx); err != nil {
				env.logger.Warn("gateway shutdown", "error", err)
			}
		})
		fmt.Fprintf(out, "  [+] HTTP-Gateway auf %s\n", cfg.GetServiceAddress("http"))
		fmt.Fprintf(out, "      Health Check: http://localhost:%d/api/v1/health\n", cfg.Server.HTTPPort)
	}

	if target == "grpc" || target == "all" {
		srv := rpc.New(rpc.Config{
			Host:             cfg.Server.Host,
			Port:             cfg.Server.GRPCPort,
			EnableReflection: cfg.Server.EnableReflection,
		}, env.service)
		registerStoreCheck(srv.HealthRegistry(), env)
		if err := srv.StartAsync(); err != nil {
			for _, stop := range stops {
				stop(context.Background())
			}
			return err
		}
		stops = append(stops, srv.Stop)
		fmt.Fprintf(out, "  [+] gRPC-Server auf %s\n", cfg.GetServiceAddress("grpc"))
		if gw != nil {
			registerGRPCCheck(gw.HealthRegistry(), cfg)
		}
	}

	fmt.Fprintln(out, "Drücke Ctrl+C zum Beenden")
	<-ctx.Done()

	fmt.Fprintln(out, "\nStoppe Server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	for _, stop := range stops {
		stop(shutdownCtx)
	}
	return nil
}

// registerStoreCheck adds the SQLite store to a health registry. The
// in-memory store has nothing to check.
func registerStoreCheck(registry *health.Registry, env *environment) {
	if env.store == nil {
		return
	}
	registry.Register(health.PingCheck("store", env.store, 2*time.Second))
	registry.RegisterFunc("store_contents", func(ctx context.Context) health.CheckResult {
		stats, err := env.store.Statistics(ctx)
		if err != nil {
			return health.CheckResult{Name: "store_contents", Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.CheckResult{
			Name:    "store_contents",
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%v Einträge", stats["history_entries"]),
			Details: stats,
		}
	})
}

// registerGRPCCheck lets the gateway report whether the gRPC listener of
// the same process accepts connections.
func registerGRPCCheck(registry *health.Registry, cfg *config.Config) {
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	addr := net.JoinHostPort(host, strconv.Itoa(cfg.Server.GRPCPort))
	registry.Register(health.TCPCheck("grpc", addr, 2*time.Second))
}
