package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"doctrans/config"
	"doctrans/internal/adapter/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the parse cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the parse cache holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingCache(cmd.OutOrStdout())
		if err != nil || st == nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats()
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}
		info, err := st.GetSchemaInfo()
		if err != nil {
			return fmt.Errorf("failed to read schema info: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", config.CacheDBPath(GetRootDir()))
		fmt.Fprintf(out, "  Schema version: %d\n", info.Version)
		fmt.Fprintf(out, "  Config hash:    %s\n", info.ConfigHash)
		fmt.Fprintf(out, "  Parsed IRs:     %d\n", stats.IRs)
		fmt.Fprintf(out, "  Files:          %d\n", stats.Files)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached parse result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingCache(cmd.OutOrStdout())
		if err != nil || st == nil {
			return err
		}
		defer st.Close()

		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openExistingCache opens the project cache, or returns nil after telling the
// user when there is none.
func openExistingCache(w io.Writer) (*store.BoltStore, error) {
	path := config.CacheDBPath(GetRootDir())
	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		fmt.Fprintln(w, "No cache found. Run 'doctrans scan' first.")
		return nil, nil
	}
	st, err := store.NewBoltStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return st, nil
}
