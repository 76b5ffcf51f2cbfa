// Command barberctl runs one-off maintenance tasks against the barberia
// database: calendar generation, rebuild, catalog seeding and admin grants.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/faroemiliano/backBarberia1991/config"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"github.com/faroemiliano/backBarberia1991/internal/schedule"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/faroemiliano/backBarberia1991/pkg/database"
	"github.com/faroemiliano/backBarberia1991/pkg/logger"
	"gorm.io/gorm"
)

const usage = `usage: barberctl <command> [flags]

commands:
  generate                  insert missing slots up to the horizon
  rebuild -confirm REBUILD  delete every appointment and slot, then regenerate
  seed-services             create or refresh the default service catalog
  promote-admin -email ADDR grant admin to an existing user
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New("barberctl", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	confirm := fs.String("confirm", "", "must be "+service.RebuildConfirmation+" for rebuild")
	email := fs.String("email", "", "user email for promote-admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd {
	case "generate", "rebuild", "seed-services", "promote-admin":
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		return err
	}

	switch cmd {
	case "generate":
		calendar, err := newCalendar(cfg, log, db)
		if err != nil {
			return err
		}
		created, err := calendar.Generate(ctx)
		if err != nil {
			return err
		}
		log.Info("calendar generated", "created", created)

	case "rebuild":
		calendar, err := newCalendar(cfg, log, db)
		if err != nil {
			return err
		}
		created, err := calendar.Rebuild(ctx, *confirm)
		if err != nil {
			return err
		}
		log.Info("calendar rebuilt", "created", created)

	case "seed-services":
		catalog := service.NewCatalogService(repository.NewUnitOfWork(db), repository.NewServiceRepository(db), log)
		res, err := catalog.Seed(ctx)
		if err != nil {
			return err
		}
		log.Info("services seeded", "created", res.Created, "updated", res.Updated, "reactivated", res.Reactivated)

	case "promote-admin":
		if *email == "" {
			return fmt.Errorf("-email is required")
		}
		users := service.NewAuthService(repository.NewUserRepository(db), nil, nil, cfg.AdminEmail, log)
		if err := users.PromoteAdmin(ctx, *email); err != nil {
			return err
		}
		log.Info("admin granted", "email", *email)
	}
	return nil
}

func newCalendar(cfg *config.Config, log *slog.Logger, db *gorm.DB) (service.CalendarService, error) {
	sched, err := schedule.LoadFile(cfg.ScheduleFile)
	if err != nil {
		return nil, err
	}
	return service.NewCalendarService(
		repository.NewUnitOfWork(db),
		repository.NewSlotRepository(db),
		repository.NewAppointmentRepository(db),
		service.CalendarOptions{
			Schedule:     sched,
			Location:     cfg.Location,
			AllowRebuild: cfg.AllowRebuild,
			Logger:       log,
		},
	), nil
}
