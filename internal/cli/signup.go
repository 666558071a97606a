package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSignupCmd создаёт группу команд шагов регистрации.
func NewSignupCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Run signup step actions against a session",
	}

	cmd.AddCommand(
		newSignupCreateSiteCmd(clientFn, outputFn),
		newSignupCreateAccountCmd(clientFn, outputFn),
	)

	return cmd
}

func newSignupCreateSiteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var flow string
	var siteSlug string
	var siteID int
	var public int
	var comingSoon bool
	var username string
	var timezone string

	cmd := &cobra.Command{
		Use:   "create-site SESSION_ID",
		Short: "Run the site-or-domain step for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			body := map[string]any{}
			if flow != "" {
				body["flow_name"] = flow
			}
			if siteSlug != "" {
				body["site_slug"] = siteSlug
			}
			if siteID != 0 {
				body["site_id"] = siteID
			}
			if public != 0 {
				body["public"] = public
			}
			if comingSoon {
				body["coming_soon"] = true
			}
			if username != "" {
				body["username"] = username
			}
			if timezone != "" {
				body["timezone"] = timezone
			}

			result, err := client.CreateSiteOrDomain(args[0], body)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Step completed, %d dependencies provided", len(result.Provided)))
			out.Print(
				[]string{"SESSION", "FLOW", "STATUS"},
				[][]string{{result.Session.ID, result.Session.FlowName, result.Session.Status}},
				result,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&flow, "flow", "", "Flow name override")
	cmd.Flags().StringVar(&siteSlug, "site-slug", "", "Existing site slug")
	cmd.Flags().IntVar(&siteID, "site-id", 0, "Existing site id")
	cmd.Flags().IntVar(&public, "public", 0, "Site visibility")
	cmd.Flags().BoolVar(&comingSoon, "coming-soon", false, "Create the site in coming-soon mode")
	cmd.Flags().StringVar(&username, "username", "", "Username for the blog name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Site timezone")

	return cmd
}

func newSignupCreateAccountCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var flow string
	var username string
	var email string
	var password string
	var service string
	var accessToken string
	var idToken string

	cmd := &cobra.Command{
		Use:   "create-account SESSION_ID",
		Short: "Run the account-creation step for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			body := map[string]any{}
			if flow != "" {
				body["flow_name"] = flow
			}
			if username != "" {
				body["username"] = username
			}
			if email != "" {
				body["email"] = email
			}
			if password != "" {
				body["password"] = password
			}
			if service != "" {
				body["service"] = service
			}
			if accessToken != "" {
				body["access_token"] = accessToken
			}
			if idToken != "" {
				body["id_token"] = idToken
			}

			result, err := client.CreateAccount(args[0], body)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Account step completed, %d dependencies provided", len(result.Provided)))
			out.Print(
				[]string{"SESSION", "FLOW", "STATUS"},
				[][]string{{result.Session.ID, result.Session.FlowName, result.Session.Status}},
				result,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&flow, "flow", "", "Flow name override")
	cmd.Flags().StringVar(&username, "username", "", "New account username")
	cmd.Flags().StringVar(&email, "email", "", "New account email")
	cmd.Flags().StringVar(&password, "password", "", "New account password")
	cmd.Flags().StringVar(&service, "service", "", "Social signup service (google, apple)")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Social signup access token")
	cmd.Flags().StringVar(&idToken, "id-token", "", "Social signup id token")

	return cmd
}
