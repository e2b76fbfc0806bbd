// Command guestctl inspects and edits guest invitations from a terminal.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/LovationAdmin/wedding-api/config"
	"github.com/LovationAdmin/wedding-api/migration"
	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand, opened lazily.
type app struct {
	cfg   *config.AppConfig
	db    *sql.DB
	store *services.WeddingStore
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := utils.InitLogger(false, cfg.LogLevel); err != nil {
		return err
	}
	db, err := config.InitDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := config.RunMigrations(db); err != nil {
		db.Close()
		return err
	}
	a.cfg, a.db = cfg, db
	a.store = services.NewWeddingStore(db, cfg.DatabaseDriver)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	utils.SyncLogger()
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "guestctl",
		Short:         "Manage wedding guests from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	cmd.AddCommand(itineraryCmd(a), countdownCmd(a), rsvpCmd(a), sendCmd(a), migrateCmd(a))
	return cmd
}

func itineraryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "itinerary <slug> <guest-id>",
		Short: "Print a guest's events, answers and countdowns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, guest, err := a.loadGuest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			renderItinerary(cmd.OutOrStdout(), w, guest, time.Now())
			return nil
		},
	}
}

func countdownCmd(a *app) *cobra.Command {
	var (
		eventIndex int
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "countdown <slug>",
		Short: "Show the time left until an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := a.store.GetWeddingBySlug(ctx, args[0])
			if err != nil {
				return err
			}
			events, err := a.store.GetEventsByWedding(ctx, w.ID)
			if err != nil {
				return err
			}
			if eventIndex < 0 || eventIndex >= len(events) {
				return fmt.Errorf("event index %d out of range (%d events)", eventIndex, len(events))
			}
			ev := events[eventIndex]
			out := cmd.OutOrStdout()

			show := func(now time.Time) {
				cd, err := services.ComputeCountdown(ev.EventDate, ev.StartTime, now)
				fmt.Fprintf(out, "\r%s: %s   ", ev.Name, countdownLabel(cd, err))
			}
			show(time.Now())
			if !watch {
				fmt.Fprintln(out)
				return nil
			}

			clock := services.NewClock(time.Second)
			defer clock.Stop()
			ticks, unsubscribe := clock.Subscribe(services.Fine)
			defer unsubscribe()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)

			for {
				select {
				case now, ok := <-ticks:
					if !ok {
						return nil
					}
					show(now)
				case <-stop:
					fmt.Fprintln(out)
					return nil
				}
			}
		},
	}
	cmd.Flags().IntVarP(&eventIndex, "event", "e", 0, "Event index in date order")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep updating every second")
	return cmd
}

func rsvpCmd(a *app) *cobra.Command {
	var guests int
	cmd := &cobra.Command{
		Use:   "rsvp <slug> <guest-id> <event-index> <yes|no|maybe>",
		Short: "Answer an invitation on behalf of a guest",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, guest, err := a.loadGuest(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			inv, err := pickInvitation(guest, args[2])
			if err != nil {
				return err
			}
			status, ok := models.ParseRSVPStatus(args[3])
			if !ok {
				return services.ErrInvalidRSVPStatus
			}

			ctrl := services.NewRSVPController(services.NewRSVPService(a.store), guest)
			entry, err := ctrl.SetStatus(ctx, inv.ID, status)
			if err != nil {
				return err
			}
			if guests > 0 && status == models.RSVPYes {
				if entry, err = ctrl.SetGuestCount(ctx, inv.ID, guests); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %s\n", entry.EventName, rsvpLabel(models.EventInvitation{
				RSVPStatus: entry.Status,
				PlusOnes:   entry.GuestCount,
			}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&guests, "guests", "g", 0, "Number of attending guests when answering yes")
	return cmd
}

func sendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <slug> <guest-id> <event-index>",
		Short: "Email a guest their invitation link",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, guest, err := a.loadGuest(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			inv, err := pickInvitation(guest, args[2])
			if err != nil {
				return err
			}
			mailer := services.NewEmailService(a.cfg.ResendAPIKey, a.cfg.FromEmail, a.cfg.FrontendURL, a.store)
			if err := mailer.SendGuestInvitation(ctx, args[0], guest.ID, inv.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📧 sent %s to %s\n", inv.Event.Name, guest.Email)
			return nil
		},
	}
}

func migrateCmd(a *app) *cobra.Command {
	var slug string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Normalize stored template ids and JSON columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if slug != "" {
				migrated, err := migration.MigrateSingleWedding(ctx, a.db, a.cfg.DatabaseDriver, slug)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s migrated: %t\n", slug, migrated)
				return nil
			}
			res, err := migration.MigrateAllWeddings(ctx, a.db, a.cfg.DatabaseDriver)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "📊 %d migrated, %d skipped, %d errors\n", res.Migrated, res.Skipped, res.Errors)
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "Only migrate this wedding")
	return cmd
}

func (a *app) loadGuest(ctx context.Context, slug, guestID string) (*models.Wedding, *models.GuestWithInvitations, error) {
	w, err := a.store.GetWeddingBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("wedding %s: %w", slug, err)
	}
	if _, err := a.store.ValidateGuestAccess(ctx, w.ID, guestID); err != nil {
		return nil, nil, fmt.Errorf("guest %s: %w", guestID, err)
	}
	guest, err := a.store.GetGuestWithInvitations(ctx, guestID)
	if err != nil {
		return nil, nil, err
	}
	return w, guest, nil
}

// pickInvitation resolves a carousel index argument.
func pickInvitation(guest *models.GuestWithInvitations, raw string) (models.InvitationWithEvent, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 || index >= len(guest.Invitations) {
		return models.InvitationWithEvent{}, fmt.Errorf("event index %q out of range (%d invitations)", raw, len(guest.Invitations))
	}
	return guest.Invitations[index], nil
}
