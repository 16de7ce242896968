package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the auth token",
		RunE:  runLogin,
	}
	f := cmd.Flags()
	f.StringP("username", "u", "", "Username (prompted when omitted)")
	f.String("password", "", "Password (prompted when omitted; prefer the prompt)")
	addCommonFlags(f)
	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE:  runRegister,
	}
	f := cmd.Flags()
	f.StringP("username", "u", "", "Username (prompted when omitted)")
	f.StringP("email", "e", "", "Email address (prompted when omitted)")
	f.String("password", "", "Password (prompted when omitted; prefer the prompt)")
	addCommonFlags(f)
	return cmd
}

func logoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the session and the cached token",
		RunE:  runLogout,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

func whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile for the cached token",
		RunE:  runWhoami,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

// promptLine reads one line of input with a label.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	return promptLine("")
}

func credential(v string, prompt func(string) (string, error), label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return prompt(label)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	username, err := credential(a.v.GetString("username"), promptLine, "Username: ")
	if err != nil {
		return err
	}
	password, err := credential(a.v.GetString("password"), promptPassword, "Password: ")
	if err != nil {
		return err
	}

	if err := a.session.Login(cmd.Context(), username, password); err != nil {
		return err
	}
	if u := a.session.User(); u != nil {
		fmt.Printf("Logged in as %s <%s>\n", u.Username, u.Email)
	} else {
		fmt.Println("Logged in (profile unavailable)")
	}
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	username, err := credential(a.v.GetString("username"), promptLine, "Username: ")
	if err != nil {
		return err
	}
	email, err := credential(a.v.GetString("email"), promptLine, "Email: ")
	if err != nil {
		return err
	}
	password, err := credential(a.v.GetString("password"), promptPassword, "Password: ")
	if err != nil {
		return err
	}

	if err := a.session.Register(cmd.Context(), username, email, password); err != nil {
		return err
	}
	fmt.Printf("Account created. Logged in as %s\n", username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.session.Token() == "" {
		fmt.Println("Not logged in")
		return nil
	}
	u, err := a.client.Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	fmt.Printf("%s <%s>\n", u.Username, u.Email)
	if u.CreatedAt != "" {
		fmt.Printf("Member since %s\n", u.CreatedAt)
	}
	return nil
}
