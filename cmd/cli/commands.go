package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/repository"
	"github.com/waghrental/rentledger/internal/service"
)

func newMigrateCommand() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(repository.Up), string(repository.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return errors.New("DATABASE_URL is not set")
			}
			db, err := sql.Open("postgres", dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			dir := repository.Direction(args[0])
			if err := repository.RunMigrations(db, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	return cmd
}

func newSummaryCommand(client func() *apiClient) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show this month's rent collection summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/reports/summary"
			if asOf != "" {
				path += "?asOf=" + url.QueryEscape(asOf)
			}
			var s finance.SummaryRecord
			if err := client().do(cmd.Context(), "GET", path, &s); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Month\t%s\n", s.Month.Label())
			fmt.Fprintf(w, "Active tenants\t%d\n", s.ActiveTenants)
			fmt.Fprintf(w, "Expected rent\t%s\n", s.ExpectedMonthlyRent.StringFixed(2))
			fmt.Fprintf(w, "Collected\t%s\n", s.CollectedThisMonth.StringFixed(2))
			fmt.Fprintf(w, "Collection rate\t%s%%\n", s.CollectionRate.StringFixed(2))
			fmt.Fprintf(w, "Expenses\t%s\n", s.ExpensesThisMonth.StringFixed(2))
			fmt.Fprintf(w, "Late payments\t%d\n", s.LatePayments)
			fmt.Fprintf(w, "Pending payments\t%d\n", s.PendingPayments)
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this date (YYYY-MM-DD)")
	return cmd
}

func newMonthsCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List income, expenses and net per month, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report finance.MonthlyReport
			if err := client().do(cmd.Context(), "GET", "/reports/months", &report); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSES\tNET")
			for _, m := range report.Months {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Month.Label(),
					m.Payments.StringFixed(2), m.Expenses.StringFixed(2), m.Net.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func newMissingCommand(client func() *apiClient) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List active tenants with no payment in a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/reports/missing"
			if month != "" {
				if _, err := finance.ParseMonthKey(month); err != nil {
					return err
				}
				path += "?month=" + url.QueryEscape(month)
			}
			var report service.MissingReport
			if err := client().do(cmd.Context(), "GET", path, &report); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(report.Entries) == 0 {
				fmt.Fprintf(out, "All active tenants have paid for %s.\n", report.Label)
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TENANT\tPROPERTY\tEXPECTED")
			for _, e := range report.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Tenant.Name, e.PropertyName, e.ExpectedAmount.StringFixed(2))
			}
			fmt.Fprintf(w, "TOTAL\t\t%s\n", report.Total)
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM or M/YYYY (default: current month)")
	return cmd
}

func newTenantsCommand(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List and archive tenants",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/tenants"
			if all {
				path += "?includeArchived=true"
			}
			var tenants []domain.Tenant
			if err := client().do(cmd.Context(), "GET", path, &tenants); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tRENT\tSTATUS")
			for _, t := range tenants {
				status := "active"
				if t.IsArchived {
					status = "archived"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.RentAmount.StringFixed(2), status)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include archived tenants")

	setArchived := func(use, short, action string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <tenant-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var t domain.Tenant
				path := "/tenants/" + url.PathEscape(args[0]) + "/" + use
				if err := client().do(cmd.Context(), "PUT", path, &t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.Name, action)
				return nil
			},
		}
	}

	cmd.AddCommand(
		list,
		setArchived("archive", "Archive a tenant; history is kept", "archived"),
		setArchived("unarchive", "Make an archived tenant active again", "restored"),
	)
	return cmd
}
