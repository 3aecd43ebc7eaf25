package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/stockledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockledger-cli",
		Short: "StockLedger CLI tool",
		Long:  `A command line interface for interacting with the StockLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the StockLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(inventoryCmd())
	rootCmd.AddCommand(reportsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory operations",
	}

	cmd.AddCommand(reconcileCmd())
	cmd.AddCommand(lowStockCmd())
	cmd.AddCommand(valueCmd())

	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <store-id> <product-id>",
		Short: "Check a balance against its movement log",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := getJSON(fmt.Sprintf("%s/api/v1/inventory/%s/%s/reconcile", baseURL, args[0], args[1]))
			if err != nil {
				fmt.Printf("Reconciliation FAILED: %v\n", err)
				os.Exit(1)
			}

			if consistent, ok := result["consistent"].(bool); ok && consistent {
				fmt.Println("Reconciliation PASSED")
			} else {
				fmt.Println("Reconciliation FAILED: balance does not match movement log")
			}
			printJSON(result)
		},
	}
}

func lowStockCmd() *cobra.Command {
	var threshold int64
	var storeID string

	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List balances at or below a threshold",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			query.Set("threshold", strconv.FormatInt(threshold, 10))
			if storeID != "" {
				query.Set("store_id", storeID)
			}

			result, err := getJSON(baseURL + "/api/v1/inventory/low-stock?" + query.Encode())
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	}

	cmd.Flags().Int64Var(&threshold, "threshold", 10, "Low stock threshold")
	cmd.Flags().StringVar(&storeID, "store", "", "Limit to one store")

	return cmd
}

func valueCmd() *cobra.Command {
	var storeID string

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Report inventory value",
		Run: func(cmd *cobra.Command, args []string) {
			endpoint := baseURL + "/api/v1/inventory/value"
			if storeID != "" {
				endpoint += "?store_id=" + url.QueryEscape(storeID)
			}

			result, err := getJSON(endpoint)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "", "Limit to one store")

	return cmd
}

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Sales reporting",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sales",
		Short: "Show sales statistics for completed orders",
		Run: func(cmd *cobra.Command, args []string) {
			result, err := getJSON(baseURL + "/api/v1/reports/sales/statistics")
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	})

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL string
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrations(databaseURL, migrationsPath); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrationsDown(databaseURL, migrationsPath); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migration rolled back")
		},
	})

	return cmd
}

func getJSON(endpoint string) (map[string]any, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
