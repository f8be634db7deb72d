package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"fleet-client/internal/adapters/kv"
	"fleet-client/internal/cache"
	"fleet-client/internal/config"
	"fleet-client/internal/domain"
	"fleet-client/internal/gateway"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/services"
	"fleet-client/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app is the client composition root shared by every subcommand.
type app struct {
	logger  *slog.Logger
	stores  *store.Stores
	cache   *cache.Cache
	session *services.Session
	sync    *services.Sync
	offline *services.Offline
	closeKV func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		ServiceName: "fleetctl",
		Environment: cfg.Env,
		Output:      os.Stderr,
	})
	slog.SetDefault(logger)

	kvStore, closeKV, err := kv.Open(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		logger:  logger,
		stores:  store.NewStores(time.Now),
		cache:   cache.New(kvStore, logger),
		closeKV: closeKV,
	}

	client := gateway.New(
		gateway.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout, LogRequests: cfg.API.LogRequests},
		gateway.WithToken(func() string { return a.session.Token() }),
		gateway.WithLogger(logger),
		gateway.WithMetrics(gateway.NewMetrics(prometheus.NewRegistry())),
	)
	api := gateway.NewAPI(client)

	a.session = services.NewSession(api.Auth, a.cache, a.stores.UI, logger)
	a.sync = services.NewSync(api, a.stores, logger)
	a.offline = services.NewOffline(a.cache, a.stores, logger)

	a.session.Rehydrate(ctx)
	return a, nil
}

func (a *app) close() {
	if err := a.closeKV(); err != nil {
		a.logger.Warn("close cache", "err", err)
	}
}

// flushNotifications prints what the services reported and reports whether
// any of it was an error.
func (a *app) flushNotifications() bool {
	failed := false
	for _, n := range a.stores.UI.Notifications() {
		if n.Severity == domain.SeverityError {
			failed = true
		}
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", n.Severity, n.Title, n.Message)
	}
	a.stores.UI.ClearNotifications()
	return failed
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var a *app
	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Fleet operations client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd.Context())
			return err
		},
	}

	root.AddCommand(
		loginCmd(&a), logoutCmd(&a), whoamiCmd(&a), settingsCmd(&a),
		syncCmd(&a), restoreCmd(&a), ordersCmd(&a), statusCmd(&a), deliverCmd(&a),
		trackCmd(&a), stockCmd(&a), vehicleDeleteCmd(&a),
	)

	err := root.ExecuteContext(ctx)
	if a != nil {
		if a.flushNotifications() && err == nil {
			err = errors.New("command failed")
		}
		a.close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func loginCmd(a **app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := (*a).session.Login(cmd.Context(), email, password)
			if res.Ok() {
				fmt.Printf("signed in as %s\n", res.Data().User.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the cached session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			(*a).session.Logout(cmd.Context())
			return nil
		},
	}
}

func whoamiCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !(*a).session.SignedIn() {
				fmt.Println("not signed in")
				return nil
			}
			(*a).session.RefreshProfile(cmd.Context())
			if u, ok := (*a).session.User(); ok {
				fmt.Printf("%s <%s> %s\n", u.Name, u.Email, u.Role)
			}
			return nil
		},
	}
}

func settingsCmd(a **app) *cobra.Command {
	var theme, language string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change app settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := (*a).session.Settings()
			changed := false
			if cmd.Flags().Changed("theme") {
				s.Theme = domain.Theme(theme)
				changed = true
			}
			if cmd.Flags().Changed("language") {
				s.Language = language
				changed = true
			}
			if changed && !(*a).session.SaveSettings(cmd.Context(), s) {
				return nil
			}
			s = (*a).session.Settings()
			fmt.Printf("theme=%s language=%s notifications=%t\n", s.Theme, s.Language, s.NotificationsEnabled)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().StringVar(&language, "language", "", "UI language code")
	return cmd
}

func syncCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh every collection and save an offline snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := (*a).sync.RefreshAll(cmd.Context())
			if ok {
				(*a).offline.SaveSnapshot(cmd.Context())
			}
			printCounts((*a).stores)
			return nil
		},
	}
}

func restoreCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "offline-restore",
		Short: "Load the last offline snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !(*a).offline.RestoreSnapshot(cmd.Context()) {
				return errors.New("no usable offline snapshot")
			}
			printCounts((*a).stores)
			return nil
		},
	}
}

func printCounts(s *store.Stores) {
	fmt.Printf("orders=%d shipments=%d vehicles=%d customers=%d inventory=%d\n",
		s.Orders.Len(), s.Shipments.Len(), s.Fleet.Len(), s.Customers.Len(), s.Inventory.Len())
}

func ordersCmd(a **app) *cobra.Command {
	var status, query string
	var offline bool
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if offline {
				if !(*a).offline.RestoreSnapshot(cmd.Context()) {
					return errors.New("no usable offline snapshot")
				}
			} else if !(*a).sync.RefreshOrders(cmd.Context()) {
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCUSTOMER\tSTATUS\tPRIORITY\tTOTAL\tDELIVERED")
			for _, o := range (*a).stores.Orders.FilterBy(domain.OrderStatus(status), query) {
				delivered := "-"
				if o.DeliveryDate != nil {
					delivered = o.DeliveryDate.Format(time.DateOnly)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.CustomerName, o.Status, o.Priority, o.Total.StringFixed(2), delivered)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only orders in this status")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search id, customer and address")
	cmd.Flags().BoolVar(&offline, "offline", false, "read the offline snapshot instead of the backend")
	return cmd
}

func statusCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status domain.OrderStatus
			if err := status.UnmarshalText([]byte(args[1])); err != nil {
				return err
			}
			// Load the current record so terminal statuses are caught locally.
			(*a).sync.RefreshOrders(cmd.Context())
			if o, ok := (*a).sync.UpdateOrderStatus(cmd.Context(), args[0], status); ok {
				fmt.Printf("%s is now %s\n", o.ID, o.Status)
			}
			return nil
		},
	}
}

func deliverCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "deliver <order-id>",
		Short: "Mark an order delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			(*a).sync.RefreshOrders(cmd.Context())
			o, ok := (*a).sync.UpdateOrderStatus(cmd.Context(), args[0], domain.OrderDelivered)
			if ok && o.DeliveryDate != nil {
				fmt.Printf("%s delivered on %s\n", o.ID, o.DeliveryDate.Format(time.DateOnly))
			}
			return nil
		},
	}
}

func trackCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <tracking-number>",
		Short: "Show a shipment's tracking history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, ok := (*a).sync.TrackShipment(cmd.Context(), args[0])
			if !ok {
				return nil
			}
			fmt.Printf("%s %s -> %s: %s at %s\n", sh.TrackingNumber, sh.Origin, sh.Destination, sh.Status, sh.CurrentLocation)
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, ev := range sh.TrackingHistory {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", ev.Timestamp.Format(time.RFC3339), ev.Status, ev.Location)
			}
			return tw.Flush()
		},
	}
}

func stockCmd(a **app) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "stock <item-id> <delta>",
		Short: "Adjust an inventory item's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("delta %q: %w", args[1], err)
			}
			(*a).sync.RefreshInventory(cmd.Context())
			if item, ok := (*a).sync.AdjustStock(cmd.Context(), args[0], delta, reason); ok {
				fmt.Printf("%s %s: %d on hand\n", item.SKU, item.Name, item.Quantity)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "recorded with the adjustment")
	return cmd
}

func vehicleDeleteCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-vehicle <vehicle-id>",
		Short: "Remove a vehicle and unassign its orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := (*a).sync
			s.RefreshVehicles(cmd.Context())
			s.RefreshOrders(cmd.Context())
			if s.DeleteVehicle(cmd.Context(), args[0]) {
				fmt.Printf("deleted %s\n", args[0])
			}
			return nil
		},
	}
}
