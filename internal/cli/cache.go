package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/pkg/render"
	"github.com/clipperviz/clipper/pkg/store"
)

// newCacheCmd creates the cache management command. The subcommands
// operate on the configured store backend when one is set, and fall back
// to the on-disk store the render command writes.
func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact store",
	}

	cmd.AddCommand(newCacheLsCmd(configPath))
	cmd.AddCommand(newCacheRmCmd(configPath))
	cmd.AddCommand(newCacheClearCmd(configPath))
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// artifactEntry is one stored artifact's listing row.
type artifactEntry struct {
	Fingerprint string
	Format      string
	Bytes       int
}

// newCacheLsCmd creates the "cache ls" subcommand.
func newCacheLsCmd(configPath *string) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openCacheStore(ctx, *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := listArtifacts(ctx, st)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Store is empty")
				return nil
			}

			if interactive {
				m := newCacheBrowserModel(ctx, st, entries)
				p := tea.NewProgram(m)
				final, err := p.Run()
				if err != nil {
					return err
				}
				if fm, ok := final.(cacheBrowserModel); ok && fm.removed > 0 {
					printSuccess("Removed %d artifacts", fm.removed)
				}
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %-4s  %s\n",
					shortFingerprint(e.Fingerprint), e.Format, humanBytes(int64(e.Bytes)))
			}
			printDetail("%d artifacts", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse and delete artifacts in a TUI")

	return cmd
}

// newCacheRmCmd creates the "cache rm" subcommand.
func newCacheRmCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [fingerprint]",
		Short: "Remove one stored artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openCacheStore(ctx, *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			key, err := resolveFingerprint(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := st.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete artifact: %w", err)
			}
			printSuccess("Removed %s", shortFingerprint(key))
			return nil
		},
	}
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openCacheStore(ctx, *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			lister, ok := st.(store.Lister)
			if !ok {
				return fmt.Errorf("store backend cannot enumerate keys")
			}
			keys, err := lister.Keys(ctx)
			if err != nil {
				return fmt.Errorf("list store keys: %w", err)
			}

			count := 0
			for _, key := range keys {
				if err := st.Delete(ctx, key); err != nil {
					printWarning("Could not remove %s: %v", shortFingerprint(key), err)
					continue
				}
				count++
			}
			printSuccess("Cleared %d artifacts", count)
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the on-disk store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache directory: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// openCacheStore opens the artifact store the cache commands operate on.
// A configured backend wins; with no backend (or the null backend) the
// on-disk store under the user's cache directory is used, which is where
// the render command keeps finished artifacts.
func openCacheStore(ctx context.Context, configPath string) (store.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend != "" && cfg.Store.Backend != store.BackendNull {
		return store.Open(ctx, cfg.StoreConfig())
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache directory: %w", err)
	}
	return store.NewFileStore(dir)
}

// listArtifacts enumerates the store and decodes each artifact envelope.
// Corrupt or vanished entries are skipped.
func listArtifacts(ctx context.Context, st store.Store) ([]artifactEntry, error) {
	lister, ok := st.(store.Lister)
	if !ok {
		return nil, fmt.Errorf("store backend cannot enumerate keys")
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list store keys: %w", err)
	}

	entries := make([]artifactEntry, 0, len(keys))
	for _, key := range keys {
		data, ok, err := st.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		var art render.Artifact
		if err := art.UnmarshalBinary(data); err != nil {
			continue
		}
		entries = append(entries, artifactEntry{
			Fingerprint: key,
			Format:      art.Format,
			Bytes:       len(art.Data),
		})
	}
	return entries, nil
}

// resolveFingerprint expands a possibly abbreviated fingerprint to the
// stored key it uniquely prefixes. Stores that cannot enumerate keys get
// the input back unchanged.
func resolveFingerprint(ctx context.Context, st store.Store, prefix string) (string, error) {
	lister, ok := st.(store.Lister)
	if !ok {
		return prefix, nil
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("list store keys: %w", err)
	}

	var match string
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("fingerprint %s is ambiguous", prefix)
		}
		match = key
	}
	if match == "" {
		return "", fmt.Errorf("no artifact matches %s", prefix)
	}
	return match, nil
}

// shortFingerprint abbreviates a fingerprint for display.
func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
