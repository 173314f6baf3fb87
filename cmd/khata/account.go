package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/aapka-khata/backend/pkg/client"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) signUpCmd() *cobra.Command {
	var name, amount string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			budget, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid budget %q", amount)
			}

			email, err := a.email()
			if err != nil {
				return err
			}

			password, err := a.password()
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			user, err := c.SignUp(cmd.Context(), client.SignUp{
				FullName: name,
				Email:    email,
				Password: password,
				Budget:   budget,
			})
			if err != nil {
				return fmt.Errorf("sign up failed: %w", err)
			}

			fmt.Fprintf(a.out, "Welcome, %s! Your monthly budget is %s.\n", user.FullName, a.amount(user.Budget))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your full name")
	cmd.Flags().StringVar(&amount, "budget", "0", "your monthly budget")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *app) budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage your monthly budget",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Set your monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid budget %q", args[0])
			}

			c, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}

			user, err := c.SetBudget(cmd.Context(), amount)
			if err != nil {
				return fmt.Errorf("setting the budget failed: %w", err)
			}

			fmt.Fprintf(a.out, "Your monthly budget is now %s.\n", a.amount(user.Budget))
			return nil
		},
	})

	return cmd
}

// addUserCmd creates a user directly in the database of a server,
// e.g. when sign up is not reachable from the outside.
func (a *app) addUserCmd() *cobra.Command {
	var email, name, amount, dbPath string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user in a local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			budget, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid budget %q", amount)
			}

			password, err := a.password()
			if err != nil {
				return err
			}

			if dir := filepath.Dir(dbPath); dir != "" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create data directory: %w", err)
				}
			}

			db, err := models.Connect(dbPath)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			user, err := auth.NewManager(db, 0, false).Register(cmd.Context(), auth.Registration{
				FullName: name,
				Email:    email,
				Password: password,
				Budget:   budget,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(a.out, "User %s created successfully with ID %s\n", user.Email, user.ID)
			return nil
		},
	}

	defaultDB := os.Getenv("DB_PATH")
	if defaultDB == "" {
		defaultDB = filepath.Join("data", "khata.db")
	}

	cmd.Flags().StringVar(&email, "email", "", "email address of the user")
	cmd.Flags().StringVar(&name, "name", "", "full name of the user")
	cmd.Flags().StringVar(&amount, "budget", "0", "monthly budget of the user")
	cmd.Flags().StringVar(&dbPath, "db", defaultDB, "path to the SQLite database")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
