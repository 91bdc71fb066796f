package cli

import (
	"context"
	"fmt"

	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCredits() *cli.Command {
	return &cli.Command{
		Name:  "credits",
		Usage: "Inspect and grant report credits",
		Commands: []*cli.Command{
			cmdCreditsShow(),
			cmdCreditsGrant(),
		},
	}
}

func userUseCase(ctx context.Context, base *baseConfig) (*usecase.UserUseCase, func(), error) {
	appCfg, repo, closer, err := base.open(ctx)
	if err != nil {
		return nil, nil, err
	}

	initial := usecase.DefaultInitialCredits
	if appCfg.Pipeline.InitialCredits > 0 {
		initial = appCfg.Pipeline.InitialCredits
	}
	return usecase.NewUserUseCase(repo, initial), closer, nil
}

func cmdCreditsShow() *cli.Command {
	var userID string
	var base baseConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID",
			Required:    true,
			Destination: &userID,
		},
	}
	flags = append(flags, base.Flags()...)

	return &cli.Command{
		Name:  "show",
		Usage: "Print the credit balance of a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := userUseCase(ctx, &base)
			if err != nil {
				return err
			}
			defer closer()

			user, err := uc.Get(ctx, userID)
			if err != nil {
				return goerr.Wrap(err, "failed to get user")
			}

			_, _ = fmt.Fprintf(c.Root().Writer, "%s: %d credits, %d reports\n", user.ID, user.Credits, user.ReportCount)
			return nil
		},
	}
}

func cmdCreditsGrant() *cli.Command {
	var userID string
	var amount int
	var base baseConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID",
			Required:    true,
			Destination: &userID,
		},
		&cli.IntFlag{
			Name:        "amount",
			Aliases:     []string{"n"},
			Usage:       "Number of credits to add",
			Required:    true,
			Destination: &amount,
		},
	}
	flags = append(flags, base.Flags()...)

	return &cli.Command{
		Name:  "grant",
		Usage: "Add credits to a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := userUseCase(ctx, &base)
			if err != nil {
				return err
			}
			defer closer()

			user, err := uc.Grant(ctx, userID, amount)
			if err != nil {
				return goerr.Wrap(err, "failed to grant credits")
			}

			logging.Default().Info("Credits granted",
				"user_id", user.ID,
				"amount", amount,
				"credits", user.Credits)
			_, _ = fmt.Fprintf(c.Root().Writer, "%s: %d credits\n", user.ID, user.Credits)
			return nil
		},
	}
}
