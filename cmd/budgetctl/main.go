package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/cli"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	applog "github.com/Karlitosc01/Budget-Analysis/internal/log"
	"github.com/Karlitosc01/Budget-Analysis/internal/services"
	"github.com/Karlitosc01/Budget-Analysis/internal/storage"
)

var (
	rangeValue string
	rangeStart string
	rangeEnd   string
)

func main() {
	cli.LoadEnvFile()
	cli.SetupLogger(applog.ComponentCLI)

	rootCmd := &cobra.Command{
		Use:   "budgetctl",
		Short: "Manage the bill catalogue and inspect upcoming payments",
		Long: `budgetctl works against the same SQLite database as the budget server.
Configuration is read from the environment (SQLITE_DB_PATH and friends).`,
		SilenceUsage: true,
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the bill catalogue from a JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Print the upcoming payment schedule",
		Args:  cobra.NoArgs,
		RunE:  runUpcoming,
	}
	upcomingCmd.Flags().StringVar(&rangeValue, "days", "7", "number of days to look ahead")
	upcomingCmd.Flags().StringVar(&rangeStart, "start", "", "custom range start (YYYY-MM-DD)")
	upcomingCmd.Flags().StringVar(&rangeEnd, "end", "", "custom range end (YYYY-MM-DD)")

	rootCmd.AddCommand(importCmd, upcomingCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openRepository() (*storage.SQLiteRepository, error) {
	dbPath := os.Getenv("SQLITE_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/budget.db"
	}
	return storage.NewSQLiteRepository(dbPath)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	repo, err := openRepository()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	store := catalog.New()
	catalogue := services.NewCatalogueService(store, repo, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := catalogue.ReplaceFromUpload(ctx, filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("import catalogue: %w", err)
	}

	fmt.Printf("Imported %d bills (catalogue version %d)\n", len(snap.Bills), snap.Version)
	return nil
}

func runUpcoming(cmd *cobra.Command, args []string) error {
	repo, err := openRepository()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bills, version, err := repo.LoadCatalogue(ctx)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}
	if version == 0 {
		fmt.Println("No catalogue imported yet. Run 'budgetctl import <file>' first.")
		return nil
	}

	store := catalog.New()
	store.Replace(bills, version)
	schedules := services.NewScheduleService(store, nil)

	sel := services.RangeSelection{Value: rangeValue}
	if rangeStart != "" || rangeEnd != "" {
		sel = services.RangeSelection{
			Value: services.CustomRange,
			Start: rangeStart,
			End:   rangeEnd,
		}
	}

	schedule, ok := schedules.Upcoming(sel)
	if !ok {
		return fmt.Errorf("custom range needs both --start and --end in YYYY-MM-DD form")
	}

	if len(schedule.Occurrences) == 0 {
		fmt.Println("No payments due in the selected range.")
		return nil
	}

	for _, occ := range schedule.Occurrences {
		fmt.Printf("%s  %-24s %12s  in %d days\n",
			occ.Date.Format("2006-01-02"),
			occ.Name,
			core.FormatDollars(occ.Amount.Cents),
			occ.OffsetDays)
	}
	fmt.Println(schedule.TotalLabel)
	return nil
}
