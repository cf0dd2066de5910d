package cli

import (
	"fmt"
	"io"
	"strings"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/authapi"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func LoginCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin console",
		Long: `Sign in with an admin or super-admin account. The password is prompted for when
neither --password nor GOCONSOLE_PASSWORD is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := openConsole(cmd, v)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()

			email := strings.TrimSpace(v.GetString("email"))
			if email == "" {
				email, err = promptForEmail(cmd)
				if err != nil {
					return err
				}
			}
			password := v.GetString("password")
			if password == "" {
				password, err = promptForPassword(cmd)
				if err != nil {
					return err
				}
			}

			view, err := c.Login(cmd.Context(), email, password)
			switch {
			case err == nil:
			case errors.Is(err, goConsole.ErrAlreadyAuthenticated):
				st := c.Status()
				fmt.Fprintf(out, "Already signed in as %s. Run logout first.\n", st.Email)
				return err
			case errors.Is(err, goConsole.ErrRoleNotPermitted):
				fmt.Fprintln(out, "This account is not permitted to use the admin console.")
				return err
			case errors.Is(err, goConsole.ErrLoginFailed):
				fmt.Fprintln(out, authapi.Message(err))
				return err
			default:
				return errors.Wrap(err, "failed to sign in")
			}

			fmt.Fprintln(out, "Admin login successfully!")
			fmt.Fprintf(out, "Start: %s\n", view.InitialRoute)
			printMenu(out, c.Status().Menu)
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")

	return cmd
}

var promptTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . | bold }} ",
	Valid:   "{{ . | green }} ",
	Invalid: "{{ . | red }} ",
	Success: "{{ . | bold }} ",
}

func promptForEmail(cmd *cobra.Command) (string, error) {
	prompt := promptui.Prompt{
		Label:     "Email:",
		Templates: promptTemplates,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("email is required")
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return "", errors.Wrap(err, "failed to read email")
	}
	return strings.TrimSpace(result), nil
}

func promptForPassword(cmd *cobra.Command) (string, error) {
	prompt := promptui.Prompt{
		Label:     "Password:",
		Templates: promptTemplates,
		Mask:      rune('•'),
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Validate: func(input string) error {
			if input == "" {
				return errors.New("password is required")
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	return result, nil
}
