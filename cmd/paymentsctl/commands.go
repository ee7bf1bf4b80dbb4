package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/adyela/payments/internal/adapters/stripe"
	"github.com/adyela/payments/internal/bootstrap"
	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type lifecycle interface {
	RefundPayment(ctx context.Context, paymentID uuid.UUID, amount *decimal.Decimal) (*domain.Payment, error)
	ConfirmPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
}

type queries interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetPaymentByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error)
}

type app struct {
	lifecycle lifecycle
	queries   queries
	close     func()
}

type appFactory func(ctx context.Context) (*app, error)

// openApp wires the services against the configured store and Stripe account.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadPaymentsConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger.NewLogger()

	repo, closeStore, err := bootstrap.PaymentStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	gateway := stripe.NewClient(cfg.Gateway, logger)
	return &app{
		lifecycle: service.NewLifecycleService(repo, gateway, logger),
		queries:   service.NewPaymentQueryService(repo),
		close:     closeStore,
	}, nil
}

func newRootCmd(factory appFactory) *cobra.Command {
	var asJSON bool

	rootCmd := &cobra.Command{
		Use:           "paymentsctl",
		Short:         "Operate on appointment payments",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	withApp := func(run func(ctx context.Context, a *app, out io.Writer, args []string) (*domain.Payment, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := factory(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := run(ctx, a, cmd.OutOrStdout(), args)
			if err != nil {
				return err
			}
			return printPayment(cmd.OutOrStdout(), p, asJSON)
		}
	}

	rootCmd.AddCommand(getCmd(withApp))
	rootCmd.AddCommand(appointmentCmd(withApp))
	rootCmd.AddCommand(refundCmd(withApp))
	rootCmd.AddCommand(confirmCmd(withApp))

	return rootCmd
}

type runner = func(func(ctx context.Context, a *app, out io.Writer, args []string) (*domain.Payment, error)) func(*cobra.Command, []string) error

func getCmd(withApp runner) *cobra.Command {
	return &cobra.Command{
		Use:   "get [payment-id]",
		Short: "Show a payment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ io.Writer, args []string) (*domain.Payment, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return a.queries.GetPayment(ctx, id)
		}),
	}
}

func appointmentCmd(withApp runner) *cobra.Command {
	return &cobra.Command{
		Use:   "appointment [appointment-id]",
		Short: "Show the most recent payment of an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ io.Writer, args []string) (*domain.Payment, error) {
			return a.queries.GetPaymentByAppointmentID(ctx, args[0])
		}),
	}
}

func refundCmd(withApp runner) *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "refund [payment-id]",
		Short: "Refund a payment at Stripe, in full unless --amount is given",
		Long: `Requests a refund from Stripe for the payment's intent.
The local status changes to refunded once Stripe delivers charge.refunded.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, args []string) (*domain.Payment, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}

			var partial *decimal.Decimal
			if amount != "" {
				d, err := decimal.NewFromString(amount)
				if err != nil {
					return nil, fmt.Errorf("invalid --amount %q: %w", amount, err)
				}
				partial = &d
			}

			p, err := a.lifecycle.RefundPayment(ctx, id, partial)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(out, "refund requested")
			return p, nil
		}),
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Partial refund amount in major units, e.g. 25.50")

	return cmd
}

func confirmCmd(withApp runner) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm [payment-id]",
		Short: "Confirm a payment's intent at Stripe",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, args []string) (*domain.Payment, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			p, err := a.lifecycle.ConfirmPayment(ctx, id)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(out, "confirmation requested")
			return p, nil
		}),
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid payment id %q: %w", raw, err)
	}
	return id, nil
}

func printPayment(out io.Writer, p *domain.Payment, asJSON bool) error {
	intent := "-"
	if p.GatewayIntentID != nil {
		intent = *p.GatewayIntentID
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"id":            p.ID,
			"appointmentId": p.AppointmentID,
			"amount":        json.Number(p.Amount.String()),
			"currency":      p.Currency,
			"status":        p.Status,
			"intentId":      intent,
			"createdAt":     p.CreatedAt,
			"updatedAt":     p.UpdatedAt,
		})
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Appointment:\t%s\n", p.AppointmentID)
	fmt.Fprintf(tw, "Amount:\t%s %s\n", p.Amount.StringFixed(2), p.Currency)
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	fmt.Fprintf(tw, "Intent:\t%s\n", intent)
	fmt.Fprintf(tw, "Updated:\t%s\n", p.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	return tw.Flush()
}
