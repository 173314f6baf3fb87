package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aapka-khata/backend/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// errReported is returned by commands whose failure was already printed.
var errReported = errors.New("operation failed")

type app struct {
	v       *viper.Viper
	in      io.Reader
	out     io.Writer
	printer *message.Printer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{
		v:       viper.New(),
		in:      in,
		out:     out,
		printer: message.NewPrinter(language.English),
	}

	var configFile string

	root := &cobra.Command{
		Use:   "khata",
		Short: "Keep track of your expenses against a monthly budget",
		Long: `khata talks to a khata server to record expenses and compare them
to your monthly budget.

Settings are read from flags, KHATA_* environment variables
and ~/.khata.toml, in this order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(configFile)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is $HOME/.khata.toml)")
	flags.String("url", "http://localhost:8080", "base URL of the khata server")
	flags.String("email", "", "email address to sign in with")
	flags.String("password", "", "password to sign in with, prompted for if empty")

	for _, name := range []string{"url", "email", "password"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.signUpCmd(),
		a.expensesCmd(),
		a.budgetCmd(),
		a.addUserCmd(),
	)

	return root
}

// loadConfig reads the config file. A missing default config file is not an error.
func (a *app) loadConfig(file string) error {
	a.v.SetEnvPrefix("KHATA")
	a.v.AutomaticEnv()

	if file != "" {
		a.v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".khata")
		a.v.SetConfigType("toml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("could not read config: %w", err)
	}

	return nil
}

// password returns the configured password or prompts for it.
func (a *app) password() (string, error) {
	if p := a.v.GetString("password"); p != "" {
		return p, nil
	}

	fmt.Fprint(a.out, "Password: ")
	password, err := readPassword(a.in)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if strings.TrimSpace(password) == "" {
		return "", errors.New("password cannot be empty")
	}

	return password, nil
}

func (a *app) email() (string, error) {
	email := a.v.GetString("email")
	if email == "" {
		return "", errors.New("an email address is required, set it with --email or KHATA_EMAIL")
	}

	return email, nil
}

func (a *app) client() (*client.Client, error) {
	return client.New(a.v.GetString("url"))
}

// signIn returns a client with a session for the configured user.
func (a *app) signIn(ctx context.Context) (*client.Client, error) {
	email, err := a.email()
	if err != nil {
		return nil, err
	}

	password, err := a.password()
	if err != nil {
		return nil, err
	}

	c, err := a.client()
	if err != nil {
		return nil, err
	}

	if _, err := c.SignIn(ctx, email, password); err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	return c, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Not a terminal, e.g. piped input
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
