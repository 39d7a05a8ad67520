package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdelaire/gymbot/core/policy"
	"github.com/jdelaire/gymbot/internal/keychain"
)

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Manage the allow-list stored in the system keychain",
	Long: `The keychain allow-list is used when ALLOWED_NUMBERS is not set.

Examples:
  gymbot allowlist set 6281234567890 6289876543210
  gymbot allowlist show`,
}

var allowlistSetCmd = &cobra.Command{
	Use:   "set <number>...",
	Short: "Replace the stored allow-list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := normalizeIDs(args)
		if len(ids) == 0 {
			return fmt.Errorf("no valid numbers given")
		}
		if err := keychain.Set(keychain.AllowlistAccount, strings.Join(ids, ",")); err != nil {
			return fmt.Errorf("store allow-list: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d number(s)\n", len(ids))
		return nil
	},
}

var allowlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored allow-list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stored, err := keychain.Lookup(keychain.AllowlistAccount)
		if err != nil {
			return fmt.Errorf("read allow-list: %w", err)
		}
		ids := policy.ParseList(stored)
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No allow-list stored")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	allowlistCmd.AddCommand(allowlistSetCmd)
	allowlistCmd.AddCommand(allowlistShowCmd)
}

// normalizeIDs accepts numbers as separate arguments or comma-separated and
// stores them in canonical form.
func normalizeIDs(args []string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, raw := range policy.ParseList(strings.Join(args, ",")) {
		id := policy.CanonicalID(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
