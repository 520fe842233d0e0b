package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/neuraq/careadmin/internal/config"
	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/db"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run PostgreSQL document store migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closePool, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer closePool()

			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", migrator.Schema())
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	addMigrateFlags(upCmd)
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closePool, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer closePool()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), migrator.Schema(), statuses)
			return nil
		},
	}
	addMigrateFlags(statusCmd)
	cmd.AddCommand(statusCmd)

	return cmd
}

func addMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().String("schema", "public", "Target schema for migrations")
	cmd.Flags().String("dir", "./migrations", "Path to migrations directory")
}

func openMigrator(ctx context.Context, cmd *cobra.Command) (*db.Migrator, func(), error) {
	schema, _ := cmd.Flags().GetString("schema")
	dir, _ := cmd.Flags().GetString("dir")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	migrator, err := db.NewMigrator(pool, os.DirFS(dir), schema)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return migrator, pool.Close, nil
}

func printMigrationStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, s.Name, status, appliedAt)
	}
	tw.Flush()
}

func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <screen>",
		Short: "Write a screen's matching records to an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loc, err := loadConfig()
			if err != nil {
				return err
			}
			logger := cliLogger()

			ctx := context.Background()
			store, pool, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			if pool != nil {
				defer pool.Close()
			}

			screens := buildScreens(store, auth.NewDeleteGate(cfg.DeletePIN), loc, logger)
			screen, ok := dashboard.Find(screens, args[0])
			if !ok {
				return fmt.Errorf("unknown screen %q (want one of %s)", args[0], screenNames(screens))
			}

			values, err := exportValues(cmd, screen.Filters)
			if err != nil {
				return err
			}
			crit, err := dashboard.CriteriaFromValues(values, screen.Filters)
			if err != nil {
				return err
			}

			data, err := screen.Export(ctx, crit)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = screen.Title + ".xlsx"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output file (default \"<Title>.xlsx\")")
	cmd.Flags().String("q", "", "Free-text search")
	cmd.Flags().String("from", "", "Earliest date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "Latest date, YYYY-MM-DD")
	cmd.Flags().String("sort", "", "Sort key")
	cmd.Flags().String("order", "", "Sort order, asc or desc")
	cmd.Flags().StringArray("filter", nil, "Filter selection as name=value, repeatable")
	return cmd
}

// exportValues turns the export flags into the query values the HTTP list
// endpoint would receive.
func exportValues(cmd *cobra.Command, filters []string) (url.Values, error) {
	v := url.Values{}
	for _, name := range []string{"q", "from", "to", "sort", "order"} {
		if s, _ := cmd.Flags().GetString(name); s != "" {
			v.Set(name, s)
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("filter")
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --filter %q, expected name=value", pair)
		}
		if !contains(filters, name) {
			return nil, fmt.Errorf("unknown filter %q (want one of %s)", name, strings.Join(filters, ", "))
		}
		v.Set(name, value)
	}
	return v, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func screenNames(screens []dashboard.Mounted) string {
	names := make([]string, len(screens))
	for i, m := range screens {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print document counts per collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			logger := cliLogger()

			ctx := context.Background()
			store, pool, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			if pool != nil {
				defer pool.Close()
			}

			counts, err := dashboard.NewOverview(store, logger).Counts(ctx)
			if err != nil {
				return err
			}
			printCounts(cmd.OutOrStdout(), counts)
			return nil
		},
	}
}

func printCounts(w io.Writer, counts []dashboard.Count) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Value)
	}
	tw.Flush()
}

func hashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  "Hashes --password, or the first line of standard input when the flag is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = line
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().String("password", "", "Password to hash")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", fmt.Errorf("password is required")
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}
