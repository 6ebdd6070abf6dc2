package main

import (
	"context"
	"fmt"
	"os"

	"github.com/brandkeep/brandkeep/pkg/config"
	"github.com/brandkeep/brandkeep/pkg/database"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/migrations"
	"github.com/brandkeep/brandkeep/pkg/roles"
	"github.com/brandkeep/brandkeep/pkg/users"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Username string   `short:"u" long:"username" description:"Username of the new user" required:"true"`
		Password string   `short:"p" long:"password" description:"Password of the new user" env:"BRANDKEEP_PASSWORD" required:"true"`
		Email    string   `short:"e" long:"email" description:"Email of the new user"`
		Roles    []string `short:"r" long:"role" description:"Role to assign, by name (repeatable)" default:"Basic"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		fmt.Println("go run ./cmd/createuser -u <username> -p <password> [-r Admin]")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	localizer, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		log.Err(err).Fatal("localizer error")
	}

	roleStore := roles.NewStore(db, localizer)
	roleIDs := make([]string, 0, len(opts.Roles))
	for _, name := range opts.Roles {
		role, err := roleStore.FindByName(ctx, name)
		if err != nil {
			log.Err(err).Fatal("unknown role", logger.Data{"role": name})
		}
		roleIDs = append(roleIDs, role.ID)
	}

	var email *string
	if opts.Email != "" {
		email = &opts.Email
	}

	user, err := users.NewService(db).Create(ctx, users.CreateUserOptions{
		Username: opts.Username,
		Email:    email,
		Password: opts.Password,
		RoleIDs:  roleIDs,
	})
	if err != nil {
		log.Err(err).Fatal("create user error")
	}

	fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
}
