package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
)

func newHashPasswordCommand(opts *rootOptions) *cobra.Command {
	var (
		overwrite      bool
		insecureUnmask bool
	)

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Create the auth file protecting write routes",
		Long: `Creates an auth file with a hashed password (Argon2id).

The path comes from auth_file in the config file or the AUTH_FILE
environment variable (default: ./auth.secret).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.AuthFile == "" {
				return fmt.Errorf("no auth file path configured")
			}

			in, out := cmd.InOrStdin(), cmd.OutOrStdout()

			// Prompt for username
			fmt.Fprint(out, "Enter username: ")
			var username string
			if _, err := fmt.Fscanln(in, &username); err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
			if username == "" {
				return fmt.Errorf("username cannot be empty")
			}

			var password, passwordConfirm string
			if insecureUnmask {
				// Plain text mode (insecure!)
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  WARNING: Password will be visible on screen!\n")
				fmt.Fprint(out, "Enter password:   ")
				if _, err := fmt.Fscanln(in, &password); err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				fmt.Fprint(out, "Confirm password: ")
				if _, err := fmt.Fscanln(in, &passwordConfirm); err != nil {
					return fmt.Errorf("reading password confirmation: %w", err)
				}
			} else {
				// Masked mode with asterisks (default, secure)
				if password, err = readPasswordWithMask(out, "Enter password:   "); err != nil {
					return err
				}
				if passwordConfirm, err = readPasswordWithMask(out, "Confirm password: "); err != nil {
					return err
				}
			}

			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}
			if password != passwordConfirm {
				return fmt.Errorf("passwords do not match")
			}

			return app.CreateAuthFile(cfg.AuthFile, username, password, overwrite, in, out)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing auth file without asking")
	cmd.Flags().BoolVar(&insecureUnmask, "insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	return cmd
}

var errInterrupted = errors.New("interrupted")

// readPasswordWithMask reads a password from the terminal and echoes asterisks
func readPasswordWithMask(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	fd := int(syscall.Stdin)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Fallback to hidden input if we can't set raw mode
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(password), nil
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	return readMasked(bufio.NewReader(os.Stdin), out)
}

// readMasked collects runes until Enter. Input ending without Enter is
// accepted as is.
func readMasked(r io.RuneReader, out io.Writer) (string, error) {
	var password []rune
	for {
		char, _, err := r.ReadRune()
		if err != nil {
			break
		}

		switch char {
		case '\n', '\r': // Enter key
			fmt.Fprint(out, "\r\n")
			return string(password), nil
		case 127, 8: // Backspace or Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				// Clear the asterisk: backspace, space, backspace
				fmt.Fprint(out, "\b \b")
			}
		case 3: // Ctrl+C
			fmt.Fprint(out, "\r\n")
			return "", errInterrupted
		default:
			// Only accept printable characters
			if char >= 32 {
				password = append(password, char)
				fmt.Fprint(out, "*")
			}
		}
	}

	fmt.Fprintln(out)
	return string(password), nil
}
