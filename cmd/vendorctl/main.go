// cmd/vendorctl/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"jessica-sub/internal/client/activity"
	"jessica-sub/internal/client/vendors"
	"jessica-sub/internal/common/config"
	"jessica-sub/internal/common/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewStructured(cfg.Logging.Level, "console")

	os.Exit(run(context.Background(), cfg, log, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, args []string, stdout, stderr io.Writer) int {
	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
	removeCmd := flag.NewFlagSet("remove", flag.ContinueOnError)
	logCmd := flag.NewFlagSet("log", flag.ContinueOnError)
	for _, fs := range []*flag.FlagSet{listCmd, addCmd, removeCmd, logCmd} {
		fs.SetOutput(stderr)
	}

	// Add command flags
	addName := addCmd.String("name", "", "Vendor name (required)")
	addPhone := addCmd.String("phone", "", "Vendor phone number, e.g. +14085551234")
	addTrade := addCmd.String("trade", "", "Trade, e.g. plumber")

	// Remove command flags
	removeName := removeCmd.String("name", "", "Vendor name to remove (required)")

	// Log command flags
	logAction := logCmd.String("action", "", "Action name, e.g. opened_app (required)")
	logPayload := logCmd.String("payload", "{}", "JSON payload")

	if len(args) < 1 {
		help(stderr)
		return 1
	}

	vendorClient := vendors.NewClient(vendors.ConfigFrom(cfg), log)

	var result interface{}
	switch args[0] {
	case "list":
		if err := listCmd.Parse(args[1:]); err != nil {
			return 1
		}
		list, err := vendorClient.LoadPreferredVendors(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Error listing vendors: %v\n", err)
			return 1
		}
		result = list

	case "add":
		if err := addCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *addName == "" {
			fmt.Fprintln(stderr, "Error: name is required for add.")
			addCmd.Usage()
			return 1
		}
		v, err := vendorClient.AddPreferredVendor(ctx, *addName, *addPhone, *addTrade)
		if err != nil {
			fmt.Fprintf(stderr, "Error adding vendor: %v\n", err)
			return 1
		}
		result = v

	case "remove":
		if err := removeCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *removeName == "" {
			fmt.Fprintln(stderr, "Error: name is required for remove.")
			removeCmd.Usage()
			return 1
		}
		res, err := vendorClient.RemovePreferredVendor(ctx, *removeName)
		if err != nil {
			fmt.Fprintf(stderr, "Error removing vendor: %v\n", err)
			return 1
		}
		result = res

	case "log":
		if err := logCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *logAction == "" {
			fmt.Fprintln(stderr, "Error: action is required for log.")
			logCmd.Usage()
			return 1
		}
		payload := json.RawMessage(*logPayload)
		if !json.Valid(payload) {
			fmt.Fprintln(stderr, "Error: payload must be valid JSON.")
			return 1
		}
		// Delivery failures are only logged by the client.
		activity.NewClient(activity.ConfigFrom(cfg), log).LogActivity(ctx, *logAction, payload)
		result = map[string]string{"status": "sent", "action": *logAction}

	default:
		help(stderr)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

func help(w io.Writer) {
	fmt.Fprintln(w, "Usage: vendorctl <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                                  List the configured user's preferred vendors")
	fmt.Fprintln(w, "  add -name <n> [-phone <p>] [-trade <t>] Add a preferred vendor")
	fmt.Fprintln(w, "  remove -name <n>                      Remove a preferred vendor by name")
	fmt.Fprintln(w, "  log -action <a> [-payload <json>]     Send an activity log entry")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "The backend address comes from backend.base_url or BACKEND_BASE_URL.")
}
