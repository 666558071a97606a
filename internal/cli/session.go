package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewSessionCmd создаёт группу команд для управления сессиями.
func NewSessionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage signup sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(clientFn, outputFn),
		newSessionStartCmd(clientFn, outputFn),
		newSessionShowCmd(clientFn, outputFn),
		newSessionSubmitCmd(clientFn, outputFn),
		newSessionEvaluateCmd(clientFn, outputFn),
		newSessionCompleteCmd(clientFn, outputFn),
		newSessionAbandonCmd(clientFn, outputFn),
	)

	return cmd
}

func newSessionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var flow string
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sessions, err := client.ListSessions(ListSessionsOpts{
				Flow:   flow,
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "FLOW", "STATUS", "EXCLUDED", "CREATED"}
			rows := make([][]string, len(sessions))
			for i, s := range sessions {
				rows[i] = []string{
					s.ID, s.FlowName, s.Status,
					strings.Join(s.ExcludedSteps, ","), s.CreatedAt,
				}
			}

			out.Print(headers, rows, sessions)
			return nil
		},
	}

	cmd.Flags().StringVar(&flow, "flow", "", "Filter by flow name")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (ACTIVE, COMPLETED, ABANDONED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newSessionStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var deps []string

	cmd := &cobra.Command{
		Use:   "start FLOW",
		Short: "Start a new signup session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateSessionRequest{FlowName: args[0]}

			if len(deps) > 0 {
				req.Dependencies = make(map[string]any)
				for _, kv := range deps {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) != 2 {
						return fmt.Errorf("invalid dependency format %q, expected KEY=VALUE", kv)
					}
					req.Dependencies[parts[0]] = parts[1]
				}
			}

			sess, err := client.CreateSession(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Session started: %s", sess.ID))
			out.Print(
				[]string{"ID", "FLOW", "STATUS", "CREATED"},
				[][]string{{sess.ID, sess.FlowName, sess.Status, sess.CreatedAt}},
				sess,
			)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&deps, "dep", nil, "Initial dependencies as KEY=VALUE (repeatable)")

	return cmd
}

func newSessionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show session details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sess, err := client.GetSession(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "FLOW", "STATUS", "DEPS", "EXCLUDED", "SUBMITTED"},
				[][]string{{
					sess.ID, sess.FlowName, sess.Status,
					strconv.Itoa(len(sess.Dependencies)),
					strings.Join(sess.ExcludedSteps, ","),
					strconv.Itoa(len(sess.Progress)),
				}},
				sess,
			)
			return nil
		},
	}
}

func newSessionSubmitCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var deps []string
	var skipped bool

	cmd := &cobra.Command{
		Use:   "submit ID STEP",
		Short: "Submit a step with its dependencies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := SubmitStepRequest{WasSkipped: skipped}

			if len(deps) > 0 {
				req.Dependencies = make(map[string]any)
				for _, kv := range deps {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) != 2 {
						return fmt.Errorf("invalid dependency format %q, expected KEY=VALUE", kv)
					}
					req.Dependencies[parts[0]] = parts[1]
				}
			}

			sess, err := client.SubmitStep(args[0], args[1], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Step submitted: %s", args[1]))
			out.Print(
				[]string{"ID", "FLOW", "STATUS", "SUBMITTED"},
				[][]string{{sess.ID, sess.FlowName, sess.Status, strconv.Itoa(len(sess.Progress))}},
				sess,
			)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&deps, "dep", nil, "Dependencies as KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&skipped, "skipped", false, "Mark the step as skipped")

	return cmd
}

func newSessionEvaluateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var query []string
	var paidPlan bool
	var planSlug string

	cmd := &cobra.Command{
		Use:   "evaluate ID",
		Short: "Run fulfillment checks for the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := EvaluateRequest{
				IsPaidPlan:   paidPlan,
				SitePlanSlug: planSlug,
			}

			if len(query) > 0 {
				req.Query = make(map[string]string)
				for _, kv := range query {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) != 2 {
						return fmt.Errorf("invalid query format %q, expected KEY=VALUE", kv)
					}
					req.Query[parts[0]] = parts[1]
				}
			}

			result, err := client.Evaluate(args[0], req)
			if err != nil {
				return err
			}

			headers := []string{"STEP", "FULFILLED", "EXCLUDED"}
			rows := make([][]string, len(result.Outcomes))
			for i, o := range result.Outcomes {
				rows[i] = []string{
					o.StepName,
					strings.Join(o.Fulfilled, ","),
					strconv.FormatBool(o.Excluded),
				}
			}

			out.Print(headers, rows, result)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringSliceVar(&query, "query", nil, "Entry query parameters as KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&paidPlan, "paid-plan", false, "Site already has a paid plan")
	cmd.Flags().StringVar(&planSlug, "plan-slug", "", "Current site plan slug")

	return cmd
}

func newSessionCompleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a session as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sess, err := client.CompleteSession(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Session completed: %s", sess.ID))
			return nil
		},
	}
}

func newSessionAbandonCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon ID",
		Short: "Mark a session as abandoned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sess, err := client.AbandonSession(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Session abandoned: %s", sess.ID))
			return nil
		},
	}
}
