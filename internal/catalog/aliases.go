package catalog

// itemAliases maps community shorthand (lowercase) to the canonical item name.
var itemAliases = map[string]string{
	"bork":   "Blade of the Ruined King",
	"botrk":  "Blade of the Ruined King",
	"ie":     "Infinity Edge",
	"ga":     "Guardian Angel",
	"dd":     "Death's Dance",
	"bc":     "Black Cleaver",
	"ldr":    "Lord Dominik's Regards",
	"qss":    "Quicksilver Sash",
	"rfc":    "Rapid Firecannon",
	"dcap":   "Rabadon's Deathcap",
	"tabis":  "Plated Steelcaps",
	"mercs":  "Mercury's Treads",
	"lucis":  "Ionian Boots of Lucidity",
	"zhonya": "Zhonya's Hourglass",
}

// StatModsBase is the fixed location of the stat shard icons; they are not
// listed in runesReforged.json.
const StatModsBase = "https://ddragon.leagueoflegends.com/cdn/img/perk-images/StatMods/"

type statShardRule struct {
	keyword string // lowercase substring
	url     string
}

var statShardRules = []statShardRule{
	{"adaptive", StatModsBase + "StatModsAdaptiveForceIcon.png"},
	{"armor", StatModsBase + "StatModsArmorIcon.png"},
	{"health", StatModsBase + "StatModsHealthScalingIcon.png"},
	{"haste", StatModsBase + "StatModsCDRScalingIcon.png"},
	{"attack speed", StatModsBase + "StatModsAttackSpeedIcon.png"},
	{"magic resist", StatModsBase + "StatModsMagicResIcon.png"},
}

// Aliases returns a copy of the item alias table.
func Aliases() map[string]string {
	out := make(map[string]string, len(itemAliases))
	for k, v := range itemAliases {
		out[k] = v
	}
	return out
}
