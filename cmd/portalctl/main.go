// Command portalctl manages portal content from a terminal through the admin
// API. Sign in once with "portalctl login"; the session is kept in a token
// file until "portalctl logout".
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"quezon.gov.ph/portal/pkg/portalclient"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		log.Printf("portalctl: %v", err)
		os.Exit(1)
	}
}

type app struct {
	in  *bufio.Reader
	out io.Writer

	baseURL   string
	tokenFile string
	assumeYes bool
}

func (a *app) client() (*portalclient.Client, error) {
	c, err := portalclient.New(a.baseURL, portalclient.WithTokenFile(a.tokenFile))
	if err != nil {
		return nil, err
	}
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// readLine reads one line from the input, without its line ending.
func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: bufio.NewReader(in), out: out}

	baseURL := os.Getenv("PORTAL_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Manage portal events, news and documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.baseURL, "url", baseURL, "portal base URL (PORTAL_URL)")
	root.PersistentFlags().StringVar(&a.tokenFile, "token-file", portalclient.DefaultTokenPath(), "where the session is kept")

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		resourceCmd(a, eventResource()),
		resourceCmd(a, newsResource()),
		resourceCmd(a, documentResource()),
	)
	return root
}

func loginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv("PORTAL_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(a.out, "Password: ")
				if password, err = a.readLine(); err != nil {
					return err
				}
			}

			sess, err := c.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s [%s]\n", sess.Email, strings.Join(sess.Roles, ", "))
			if !sess.CanAccessAdmin {
				fmt.Fprintln(a.out, "This account has no admin access; content commands will be refused.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (PORTAL_PASSWORD, else prompted)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}
