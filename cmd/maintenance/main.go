package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/config"
	"github.com/choirdinated/backend/internal/db"
	"github.com/choirdinated/backend/internal/pkg/auth"
	"github.com/choirdinated/backend/internal/pkg/logger"
)

const usage = `Usage: maintenance <command> [options]

Commands:
  orphans [-fix]            list members without accounts and recurring
                            instances without parents; -fix removes the
                            members and detaches the instances
  tokens-cleanup            delete expired refresh tokens
  reset-password -email <email> | -id <id> [-password <password>]
                            reset an account password; generates one
                            when -password is omitted
  choirs list               list all choirs
  choirs preview-delete <id>  show what deleting a choir would remove
  choirs delete <id>        delete a choir and all its data
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: true,
	})

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	repos := repositories.NewRepositories(database.Pool)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "orphans":
		err = runOrphans(ctx, repos, os.Args[2:])
	case "tokens-cleanup":
		err = runTokensCleanup(ctx, repos)
	case "reset-password":
		err = runResetPassword(ctx, repos, os.Args[2:])
	case "choirs":
		err = runChoirs(ctx, database, repos, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runOrphans reports rows left behind by non-transactional writes and,
// with -fix, repairs them.
func runOrphans(ctx context.Context, repos *repositories.Repositories, args []string) error {
	fs := flag.NewFlagSet("orphans", flag.ExitOnError)
	fix := fs.Bool("fix", false, "remove orphan members and detach orphan instances")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orphanMembers, err := repos.MemberRepository.ListOrphans(ctx)
	if err != nil {
		return fmt.Errorf("listing orphan members: %w", err)
	}
	for _, m := range orphanMembers {
		fmt.Printf("orphan member %d (choir %d) references missing user %d\n",
			m.MemberID, m.ChoirID, m.UserID)
		if *fix {
			if err := repos.MemberRepository.Delete(ctx, m.ChoirID, m.MemberID); err != nil {
				return fmt.Errorf("deleting orphan member %d: %w", m.MemberID, err)
			}
			fmt.Printf("  deleted member %d\n", m.MemberID)
		}
	}

	orphanInstances, err := repos.EventRepository.ListOrphanInstances(ctx)
	if err != nil {
		return fmt.Errorf("listing orphan instances: %w", err)
	}
	for _, inst := range orphanInstances {
		fmt.Printf("orphan instance %d (choir %d, starts %s) references missing parent %d\n",
			inst.EventID, inst.ChoirID, inst.StartTime.Format(time.RFC3339), inst.ParentEventID)
		if *fix {
			if err := repos.EventRepository.DetachInstance(ctx, inst.EventID); err != nil {
				return fmt.Errorf("detaching instance %d: %w", inst.EventID, err)
			}
			fmt.Printf("  detached instance %d as a standalone event\n", inst.EventID)
		}
	}

	if len(orphanMembers) == 0 && len(orphanInstances) == 0 {
		fmt.Println("no orphans found")
	} else if !*fix {
		fmt.Println("run with -fix to repair")
	}
	return nil
}

func runTokensCleanup(ctx context.Context, repos *repositories.Repositories) error {
	deleted, err := repos.TokenRepository.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("deleting expired tokens: %w", err)
	}
	fmt.Printf("deleted %d expired refresh tokens\n", deleted)
	return nil
}

func runResetPassword(ctx context.Context, repos *repositories.Repositories, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	userID := fs.Int64("id", 0, "account user id")
	password := fs.String("password", "", "new password; generated when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var user *models.User
	var err error
	switch {
	case *email != "":
		user, err = repos.UserRepository.GetByEmail(ctx, *email)
	case *userID != 0:
		user, err = repos.UserRepository.GetByID(ctx, *userID)
	default:
		return fmt.Errorf("usage: maintenance reset-password -email <email> | -id <id> [-password <password>]")
	}
	if err != nil {
		return fmt.Errorf("looking up account: %w", err)
	}

	newPassword := *password
	if newPassword == "" {
		newPassword, err = auth.GeneratePassword()
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := repos.UserRepository.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := repos.TokenRepository.RevokeAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revoking refresh tokens: %w", err)
	}

	fmt.Printf("new password for %s: %s\n", user.Email, newPassword)
	return nil
}

func runChoirs(ctx context.Context, database *db.PostgresDB, repos *repositories.Repositories, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: maintenance choirs list|preview-delete|delete")
	}

	switch args[0] {
	case "list":
		choirs, err := repos.ChoirRepository.List(ctx)
		if err != nil {
			return fmt.Errorf("listing choirs: %w", err)
		}
		for _, c := range choirs {
			fmt.Printf("%d\t%s\n", c.ID, c.Name)
		}
		return nil

	case "preview-delete":
		choirID, err := parseChoirID(args)
		if err != nil {
			return err
		}
		choir, err := repos.ChoirRepository.GetByID(ctx, choirID)
		if err != nil {
			return fmt.Errorf("looking up choir %d: %w", choirID, err)
		}
		choirService := services.NewChoirService(database, repos.ChoirRepository,
			repos.HolidayRepository, repos.ListOfValueRepository, repos.MemberRepository)
		counts, err := choirService.PreviewDelete(ctx, choirID)
		if err != nil {
			return fmt.Errorf("counting choir data: %w", err)
		}
		fmt.Printf("deleting %q (%d) would remove:\n", choir.Name, choir.ID)
		fmt.Printf("  members:           %d\n", counts.Members)
		fmt.Printf("  events:            %d\n", counts.Events)
		fmt.Printf("  attendance rows:   %d\n", counts.Attendance)
		fmt.Printf("  taxonomy entries:  %d\n", counts.Taxonomy)
		fmt.Printf("  holidays:          %d\n", counts.Holidays)
		return nil

	case "delete":
		choirID, err := parseChoirID(args)
		if err != nil {
			return err
		}
		choir, err := repos.ChoirRepository.GetByID(ctx, choirID)
		if err != nil {
			return fmt.Errorf("looking up choir %d: %w", choirID, err)
		}
		choirService := services.NewChoirService(database, repos.ChoirRepository,
			repos.HolidayRepository, repos.ListOfValueRepository, repos.MemberRepository)
		if err := choirService.DeleteChoir(ctx, choirID); err != nil {
			return fmt.Errorf("deleting choir %d: %w", choirID, err)
		}
		fmt.Printf("deleted choir %q (%d)\n", choir.Name, choir.ID)
		return nil

	default:
		return fmt.Errorf("unknown choirs subcommand %q", args[0])
	}
}

func parseChoirID(args []string) (int64, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("usage: maintenance choirs %s <id>", args[0])
	}
	choirID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid choir id %q", args[1])
	}
	return choirID, nil
}
