package catalog

import "strings"

// Image is the Data Dragon image descriptor shared by every asset kind.
type Image struct {
	Full   string `json:"full"`
	Sprite string `json:"sprite"`
	Group  string `json:"group"`
}

// Champion is one entry of champion.json.
type Champion struct {
	ID    string   `json:"id"` // canonical identifier, e.g. "MonkeyKing"
	Key   string   `json:"key"`
	Name  string   `json:"name"` // display name, e.g. "Wukong"
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	Image Image    `json:"image"`
}

// Gold is the cost block of an item.
type Gold struct {
	Base        int  `json:"base"`
	Total       int  `json:"total"`
	Sell        int  `json:"sell"`
	Purchasable bool `json:"purchasable"`
}

// Item is one entry of item.json. ID is filled from the map key.
type Item struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	Plaintext string `json:"plaintext"`
	Image     Image  `json:"image"`
	Gold      Gold   `json:"gold"`
}

// Rune is a single selectable perk inside a slot.
type Rune struct {
	ID        int    `json:"id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	ShortDesc string `json:"shortDesc"`
}

// RuneSlot is one row of a rune tree; slot 0 holds the keystones.
type RuneSlot struct {
	Runes []Rune `json:"runes"`
}

// RuneTree is one path of runesReforged.json.
type RuneTree struct {
	ID    int        `json:"id"`
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Icon  string     `json:"icon"`
	Slots []RuneSlot `json:"slots"`
}

// SummonerSpell is one entry of summoner.json.
type SummonerSpell struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
}

// Spell is a champion ability or passive.
type Spell struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
}

// AbilityDetail holds the per-champion ability images. Spells are indexed
// by slot: 0=Q, 1=W, 2=E, 3=R.
type AbilityDetail struct {
	ID      string
	Name    string
	Spells  [4]Spell
	Passive Spell
}

// SlotKeys names the ability slots in order.
var SlotKeys = [4]string{"Q", "W", "E", "R"}

// Spell returns the ability bound to a slot key (Q/W/E/R, case-insensitive).
func (d *AbilityDetail) Spell(key string) (Spell, bool) {
	for i, k := range SlotKeys {
		if strings.EqualFold(strings.TrimSpace(key), k) {
			return d.Spells[i], d.Spells[i].Image.Full != ""
		}
	}
	return Spell{}, false
}

// Stats summarizes the loaded snapshot.
type Stats struct {
	Loaded    bool   `json:"loaded"`
	Version   string `json:"version,omitempty"`
	Champions int    `json:"champions"`
	Items     int    `json:"items"`
	RuneTrees int    `json:"rune_trees"`
	Summoners int    `json:"summoners"`
}
