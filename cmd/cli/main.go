package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletcore-cli",
		Short: "WalletCore CLI tool",
		Long:  `A command line interface for interacting with the WalletCore API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the WalletCore API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(depositCmd())
	rootCmd.AddCommand(withdrawCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(entriesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var ownerID, currency string
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts", map[string]string{
				"owner_id": ownerID,
				"currency": currency,
			})
		},
	}
	openCmd.Flags().StringVar(&ownerID, "owner", "", "Owner user ID")
	openCmd.Flags().StringVar(&currency, "currency", "BRL", "Account currency")
	openCmd.MarkFlagRequired("owner")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}

	var listOwner string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts of an owner",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts?owner_id="+url.QueryEscape(listOwner), nil)
		},
	}
	listCmd.Flags().StringVar(&listOwner, "owner", "", "Owner user ID")
	listCmd.MarkFlagRequired("owner")

	cmd.AddCommand(openCmd, getCmd, listCmd)

	return cmd
}

func depositCmd() *cobra.Command {
	var amount, currency, description string
	cmd := &cobra.Command{
		Use:   "deposit <account-id>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts/"+args[0]+"/deposit", map[string]string{
				"amount":      amount,
				"currency":    currency,
				"description": description,
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 100.50")
	cmd.Flags().StringVar(&currency, "currency", "BRL", "Currency")
	cmd.Flags().StringVar(&description, "description", "", "Entry description")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var amount, currency, description string
	cmd := &cobra.Command{
		Use:   "withdraw <account-id>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts/"+args[0]+"/withdraw", map[string]string{
				"amount":      amount,
				"currency":    currency,
				"description": description,
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 100.50")
	cmd.Flags().StringVar(&currency, "currency", "BRL", "Currency")
	cmd.Flags().StringVar(&description, "description", "", "Entry description")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func transferCmd() *cobra.Command {
	var source, destination, amount, currency, description string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer between two accounts",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transfers", map[string]string{
				"source_id":      source,
				"destination_id": destination,
				"amount":         amount,
				"currency":       currency,
				"description":    description,
			})
		},
	}
	cmd.Flags().StringVar(&source, "from", "", "Source account ID")
	cmd.Flags().StringVar(&destination, "to", "", "Destination account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 100.50")
	cmd.Flags().StringVar(&currency, "currency", "BRL", "Currency")
	cmd.Flags().StringVar(&description, "description", "", "Transfer description")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func entriesCmd() *cobra.Command {
	var entryType string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "entries <account-id>",
		Short: "List ledger entries of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if entryType != "" {
				query.Set("type", entryType)
			}
			query.Set("limit", fmt.Sprintf("%d", limit))
			query.Set("offset", fmt.Sprintf("%d", offset))
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/entries?"+query.Encode(), nil)
		},
	}
	cmd.Flags().StringVar(&entryType, "type", "", "Filter by entry type (deposit, withdrawal, transfer_out, transfer_in)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func doRequest(method, path string, payload any) {
	client := &http.Client{Timeout: timeout}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return
	}
	fmt.Println(pretty.String())
}
