package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/engine"
	"github.com/Veraticus/recurring-spice/internal/merchant"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/report"
	"github.com/Veraticus/recurring-spice/internal/subscription"
)

func subscriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Classify and manage subscriptions",
		Long: `Turn confirmed recurring patterns into subscriptions and keep track of
what they cost, when they renew and which ones may be worth cancelling.`,
	}

	cmd.AddCommand(subscriptionsClassifyCmd())
	cmd.AddCommand(subscriptionsListCmd())
	cmd.AddCommand(subscriptionsUpcomingCmd())
	cmd.AddCommand(subscriptionsUsageCmd())
	cmd.AddCommand(subscriptionsCancelCmd())
	cmd.AddCommand(subscriptionDateCmd("trial", "Record when a free trial ends", (*engine.Engine).SetTrialEnd))
	cmd.AddCommand(subscriptionDateCmd("end", "Record when a subscription stops", (*engine.Engine).SetEndDate))

	return cmd
}

func subscriptionsClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Create subscriptions from confirmed patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cfg, closeStore, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			created, err := eng.ClassifySubscriptions(cmd.Context(), cfg.Space)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No new subscriptions found"))
				return nil
			}
			for _, sub := range created {
				fmt.Fprintf(out, "  %s %s  %s/year (%s)\n",
					cli.RepeatIcon, cli.BoldStyle.Render(sub.ServiceName),
					common.FormatMoney(sub.AnnualCost), sub.BillingCycle)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %d subscriptions", len(created))))
			return nil
		},
	}
}

func subscriptionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions with costs and savings tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}

			eng, cfg, closeStore, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			rep, err := eng.SubscriptionInsights(cmd.Context(), cfg.Space, time.Now())
			if err != nil {
				return err
			}
			if query, _ := cmd.Flags().GetString("merchant"); query != "" {
				filtered := rep.Insights[:0]
				for _, in := range rep.Insights {
					if merchant.ContainsFold(in.ServiceName, query) {
						filtered = append(filtered, in)
					}
				}
				rep.Insights = filtered
				rep.Totals = subscription.Summarize(filtered)
			}
			if len(rep.Insights) == 0 && format == report.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No subscriptions yet"))
				return nil
			}
			return report.WriteSubscriptions(cmd.OutOrStdout(), format, rep.Insights, rep.Totals)
		},
	}
	cmd.Flags().String("merchant", "", "filter by service name, ignoring case and accents")
	addFormatFlag(cmd)
	return cmd
}

func subscriptionsUpcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show subscriptions renewing soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}

			eng, cfg, closeStore, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			horizon := cfg.UpcomingHorizon()
			if cmd.Flags().Changed("days") {
				days, _ := cmd.Flags().GetInt("days")
				if days <= 0 {
					return common.NewUserError("--days must be positive", common.ErrInvalidConfig)
				}
				horizon = time.Duration(days) * 24 * time.Hour
			}

			upcoming, err := eng.UpcomingRenewals(cmd.Context(), cfg.Space, time.Now(), horizon)
			if err != nil {
				return err
			}
			if len(upcoming) == 0 && format == report.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing renews in that window"))
				return nil
			}
			return report.WriteSubscriptions(cmd.OutOrStdout(), format, upcoming, nil)
		},
	}
	cmd.Flags().Int("days", 0, "look-ahead window in days (default from config)")
	addFormatFlag(cmd)
	return cmd
}

func subscriptionsUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <subscription-id> <low|medium|high|unknown>",
		Short: "Record how often you use a subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := model.ParseUsageFrequency(args[1])
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}
			return updateSubscription(cmd, args[0], func(ctx context.Context, eng *engine.Engine, id string) (*model.Subscription, error) {
				return eng.SetUsage(ctx, id, usage)
			})
		},
	}
}

func subscriptionsCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <subscription-id>",
		Short: "Mark a subscription as cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now().UTC()
			if raw, _ := cmd.Flags().GetString("date"); raw != "" {
				parsed, err := parseDate(raw)
				if err != nil {
					return err
				}
				at = parsed
			}
			return updateSubscription(cmd, args[0], func(ctx context.Context, eng *engine.Engine, id string) (*model.Subscription, error) {
				return eng.CancelSubscription(ctx, id, at)
			})
		},
	}
	cmd.Flags().String("date", "", "cancellation date (YYYY-MM-DD, default today)")
	return cmd
}

func subscriptionDateCmd(use, short string, set func(*engine.Engine, context.Context, string, time.Time) (*model.Subscription, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <subscription-id> <YYYY-MM-DD>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseDate(args[1])
			if err != nil {
				return err
			}
			return updateSubscription(cmd, args[0], func(ctx context.Context, eng *engine.Engine, id string) (*model.Subscription, error) {
				return set(eng, ctx, id, at)
			})
		},
	}
}

func updateSubscription(cmd *cobra.Command, prefix string, apply func(context.Context, *engine.Engine, string) (*model.Subscription, error)) error {
	eng, cfg, closeStore, err := initEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := resolveSubscriptionID(cmd.Context(), eng, cfg.Space, prefix)
	if err != nil {
		return err
	}

	sub, err := apply(cmd.Context(), eng, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated %s", sub.ServiceName)))
	return nil
}
