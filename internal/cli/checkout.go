package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewCheckoutCmd создаёт группу команд для checkout-платежей.
func NewCheckoutCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit and inspect checkout transactions",
	}

	cmd.AddCommand(
		newCheckoutPayCmd(clientFn, outputFn),
		newCheckoutLatestCmd(clientFn, outputFn),
		newCheckoutClearCmd(clientFn, outputFn),
	)

	return cmd
}

func newCheckoutPayCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req TransactionRequest

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Submit a payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.SubmitTransaction(req)
			if err != nil {
				return err
			}

			r := result.Result
			out.Print(
				[]string{"RECEIPT_ID", "ORDER_ID", "REDIRECT_URL"},
				[][]string{{strconv.Itoa(r.ReceiptID), strconv.Itoa(r.OrderID), r.RedirectURL}},
				result,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Method, "method", "", "Payment method (free-purchase, full-credits, card, existing-card, wallet, generic-redirect, paypal-express)")
	cmd.Flags().StringVar(&req.PaymentPartner, "partner", "", "Card partner (stripe, ebanx, dlocal)")
	cmd.Flags().StringVar(&req.GatewayID, "gateway", "", "Gateway ID for generic-redirect")
	cmd.Flags().StringVar(&req.CardholderName, "cardholder", "", "Cardholder name")
	cmd.Flags().IntVar(&req.StoredCardID, "stored-card", 0, "Stored card ID")
	cmd.Flags().StringVar(&req.PageURL, "page-url", "", "Checkout page URL")
	cmd.Flags().StringVar(&req.ThankYouPath, "thank-you", "", "Thank-you page path")
	cmd.Flags().StringVar(&req.SiteSlug, "site", "", "Site slug")
	cmd.Flags().IntVar(&req.SiteID, "site-id", 0, "Site ID")
	cmd.Flags().StringVar(&req.Contact.CountryCode, "country", "", "Contact country code")
	cmd.Flags().StringVar(&req.Contact.PostalCode, "postal-code", "", "Contact postal code")
	cmd.Flags().StringVar(&req.Contact.State, "state", "", "Contact subdivision code")
	cmd.MarkFlagRequired("method")

	return cmd
}

func newCheckoutLatestCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the latest committed transaction result",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.LatestTransaction()
			if err != nil {
				return err
			}

			r := result.Result
			out.Print(
				[]string{"RECEIPT_ID", "ORDER_ID", "REDIRECT_URL"},
				[][]string{{strconv.Itoa(r.ReceiptID), strconv.Itoa(r.OrderID), r.RedirectURL}},
				result,
			)
			return nil
		},
	}
}

func newCheckoutClearCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the transaction result slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.ClearTransaction(); err != nil {
				return err
			}

			out.Success("Transaction slot cleared")
			return nil
		},
	}
}
