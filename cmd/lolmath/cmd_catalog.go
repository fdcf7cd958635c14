package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"lolmath/internal/catalog"
	"lolmath/internal/perception"

	"github.com/spf13/cobra"
)

// championsCmd lists champion names
var championsCmd = &cobra.Command{
	Use:   "champions [filter]",
	Short: "List champions in the current catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listChampions,
}

// rolesCmd lists the supported roles
var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List supported roles",
	Args:  cobra.NoArgs,
	RunE:  listRoles,
}

// assetCmd resolves a name to an icon URL
var assetCmd = &cobra.Command{
	Use:   "asset [champion|splash|item|rune|summoner] [name]",
	Short: "Resolve a name to a Data Dragon image URL",
	Long: `Resolves a free-text name to an image URL using the same matching rules
as the analysis renderer. Items accept common shorthand (bork, ie, ga, dd).

Example:
  lolmath asset item "bork"
  lolmath asset rune "Adaptive Force"`,
	Args: cobra.MinimumNArgs(2),
	RunE: resolveAsset,
}

// abilitiesCmd shows the ability icons of one champion
var abilitiesCmd = &cobra.Command{
	Use:   "abilities [champion]",
	Short: "Show a champion's passive and Q/W/E/R icons",
	Args:  cobra.MinimumNArgs(1),
	RunE:  showAbilities,
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func listChampions(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, cleanup, err := loadCatalog(ctx)
	defer cleanup()
	if err != nil {
		return err
	}

	names := cat.ChampionNames()
	if len(args) == 1 {
		filter := strings.ToLower(args[0])
		kept := names[:0]
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), filter) {
				kept = append(kept, n)
			}
		}
		names = kept
	}

	if jsonOutput {
		return printJSON(cmd, map[string]any{"version": cat.Version(), "champions": names})
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}

func listRoles(cmd *cobra.Command, _ []string) error {
	if jsonOutput {
		return printJSON(cmd, perception.Roles())
	}
	for _, r := range perception.Roles() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", r.ID, r.Label)
	}
	return nil
}

func assetResolver(cat *catalog.Store, kind string) (func(string) string, error) {
	switch kind {
	case "champion":
		return cat.ResolveChampionIcon, nil
	case "splash":
		return cat.ResolveChampionSplash, nil
	case "item":
		return cat.ResolveItemIcon, nil
	case "rune":
		return cat.ResolveRuneIcon, nil
	case "summoner":
		return cat.ResolveSummonerIcon, nil
	}
	return nil, fmt.Errorf("unknown asset kind %q (want champion, splash, item, rune or summoner)", kind)
}

func resolveAsset(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, cleanup, err := loadCatalog(ctx)
	defer cleanup()
	if err != nil {
		return err
	}

	resolve, err := assetResolver(cat, args[0])
	if err != nil {
		return err
	}
	name := joinArgs(args[1:])
	url := resolve(name)

	if jsonOutput {
		return printJSON(cmd, map[string]string{"name": name, "url": url})
	}
	if url == "" {
		return fmt.Errorf("no %s image found for %q", args[0], name)
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}

func showAbilities(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, cleanup, err := loadCatalog(ctx)
	defer cleanup()
	if err != nil {
		return err
	}

	name := joinArgs(args)
	detail, ok := cat.FetchAbilityDetail(ctx, name)
	if !ok {
		return fmt.Errorf("no ability data for %q", name)
	}

	if jsonOutput {
		return printJSON(cmd, detail)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", detail.Name)
	fmt.Fprintf(out, "  P  %-24s %s\n", detail.Passive.Name, cat.PassiveIconURL(detail.Passive.Image.Full))
	for i, sp := range detail.Spells {
		fmt.Fprintf(out, "  %s  %-24s %s\n", catalog.SlotKeys[i], sp.Name, cat.SpellIconURL(sp.Image.Full))
	}
	return nil
}
