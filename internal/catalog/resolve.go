package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// compareIDs orders identifiers numerically when both are integers and
// lexically otherwise; integers sort before non-integers.
func compareIDs(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// =============================================================================
// CHAMPIONS
// =============================================================================

// ChampionID resolves a display name (case-insensitive) to its identifier.
func (s *Store) ChampionID(name string) (string, bool) {
	snap := s.snap.Load()
	if snap == nil {
		return "", false
	}
	id, ok := snap.championsByName[normalize(name)]
	return id, ok
}

// ChampionNames returns every champion display name, sorted.
func (s *Store) ChampionNames() []string {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	names := make([]string, 0, len(snap.Champions))
	for _, c := range snap.Champions {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// ResolveChampionIcon returns the square icon URL for a champion, or a
// generated avatar embedding the queried name when the champion is unknown.
func (s *Store) ResolveChampionIcon(name string) string {
	if id, ok := s.ChampionID(name); ok {
		return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", s.cfg.BaseURL, s.Version(), id)
	}
	return fmt.Sprintf("%s?name=%s&background=0D8ABC&color=fff", s.cfg.AvatarURL, url.QueryEscape(name))
}

// ResolveChampionSplash returns the loading-screen art URL, or "" when the
// champion is unknown.
func (s *Store) ResolveChampionSplash(name string) string {
	if id, ok := s.ChampionID(name); ok {
		return fmt.Sprintf("%s/cdn/img/champion/loading/%s_0.jpg", s.cfg.BaseURL, id)
	}
	return ""
}

// =============================================================================
// ITEMS
// =============================================================================

type itemStrategy struct {
	name  string
	match func(snap *Snapshot, query string) (string, bool)
}

// itemStrategies are tried in order and the first hit wins. Later
// strategies are less precise; the order is part of the contract.
var itemStrategies = []itemStrategy{
	{"exact", matchItemExact},
	{"substring", matchItemSubstring},
	{"alias", matchItemAlias},
}

func matchItemExact(snap *Snapshot, query string) (string, bool) {
	id, ok := snap.itemsByName[query]
	return id, ok
}

// minSubstringQuery keeps two-letter shorthand ("ga", "ie") out of the
// containment scan so it reaches the alias table.
const minSubstringQuery = 3

func matchItemSubstring(snap *Snapshot, query string) (string, bool) {
	if len(query) < minSubstringQuery {
		return "", false
	}
	for _, id := range snap.itemOrder {
		if strings.Contains(normalize(snap.Items[id].Name), query) {
			return id, true
		}
	}
	return "", false
}

func matchItemAlias(snap *Snapshot, query string) (string, bool) {
	canonical, ok := itemAliases[query]
	if !ok {
		return "", false
	}
	return matchItemExact(snap, normalize(canonical))
}

// FindItem resolves an item name through the strategy chain.
func (s *Store) FindItem(name string) (Item, bool) {
	snap := s.snap.Load()
	query := normalize(name)
	if snap == nil || query == "" {
		return Item{}, false
	}
	for _, strategy := range itemStrategies {
		if id, ok := strategy.match(snap, query); ok {
			return snap.Items[id], true
		}
	}
	return Item{}, false
}

// ResolveItemIcon returns the icon URL for an item name, or "" when no
// strategy matches.
func (s *Store) ResolveItemIcon(name string) string {
	item, ok := s.FindItem(name)
	if !ok || item.Image.Full == "" {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/item/%s", s.cfg.BaseURL, s.Version(), item.Image.Full)
}

// =============================================================================
// RUNES
// =============================================================================

// runeStrategy returns an absolute icon URL for query. snap may be nil.
type runeStrategy func(base string, snap *Snapshot, query string) (string, bool)

// runeStrategies are tried in order: tree name, tree key, individual rune
// name, then the stat-shard keyword table.
var runeStrategies = []runeStrategy{
	matchRuneTreeName,
	matchRuneTreeKey,
	matchRuneName,
	matchStatShard,
}

func matchRuneTreeName(base string, snap *Snapshot, query string) (string, bool) {
	if snap == nil {
		return "", false
	}
	for _, tree := range snap.Runes {
		if normalize(tree.Name) == query {
			return perkURL(base, tree.Icon), true
		}
	}
	return "", false
}

func matchRuneTreeKey(base string, snap *Snapshot, query string) (string, bool) {
	if snap == nil {
		return "", false
	}
	for _, tree := range snap.Runes {
		if normalize(tree.Key) == query {
			return perkURL(base, tree.Icon), true
		}
	}
	return "", false
}

func matchRuneName(base string, snap *Snapshot, query string) (string, bool) {
	if snap == nil {
		return "", false
	}
	for _, tree := range snap.Runes {
		for _, slot := range tree.Slots {
			for _, r := range slot.Runes {
				if normalize(r.Name) == query {
					return perkURL(base, r.Icon), true
				}
			}
		}
	}
	return "", false
}

func matchStatShard(_ string, _ *Snapshot, query string) (string, bool) {
	for _, rule := range statShardRules {
		if strings.Contains(query, rule.keyword) {
			return rule.url, true
		}
	}
	return "", false
}

func perkURL(base, icon string) string {
	return fmt.Sprintf("%s/cdn/img/%s", base, icon)
}

// ResolveRuneIcon returns the icon URL for a rune tree, rune or stat shard,
// or "" when nothing matches.
func (s *Store) ResolveRuneIcon(name string) string {
	query := normalize(name)
	if query == "" {
		return ""
	}
	snap := s.snap.Load()
	for _, strategy := range runeStrategies {
		if u, ok := strategy(s.cfg.BaseURL, snap, query); ok {
			return u
		}
	}
	return ""
}

// =============================================================================
// SUMMONER SPELLS AND ABILITY IMAGES
// =============================================================================

// ResolveSummonerIcon returns the icon URL for a summoner spell by display
// name ("Flash") or identifier ("SummonerFlash"), or "".
func (s *Store) ResolveSummonerIcon(name string) string {
	snap := s.snap.Load()
	query := normalize(name)
	if snap == nil || query == "" {
		return ""
	}
	id, ok := snap.summonersByName[query]
	if !ok {
		for _, candidate := range sortedKeys(snap.Summoners) {
			if normalize(candidate) == query {
				id, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return ""
	}
	return s.SpellIconURL(snap.Summoners[id].Image.Full)
}

// SpellIconURL builds the versioned URL of a spell image file.
func (s *Store) SpellIconURL(file string) string {
	if file == "" {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/spell/%s", s.cfg.BaseURL, s.Version(), file)
}

// PassiveIconURL builds the versioned URL of a passive image file.
func (s *Store) PassiveIconURL(file string) string {
	if file == "" {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/passive/%s", s.cfg.BaseURL, s.Version(), file)
}
