package analysis

import (
	"encoding/json"

	"google.golang.org/genai"
)

const validRecord = `{
  "champion": "Darius",
  "opponent": "Aatrox",
  "role": "top",
  "patch": "14.1",
  "winRatePrediction": "52%",
  "runes": {
    "keystone": "Conqueror",
    "primaryTree": ["Triumph", "Legend: Tenacity", "Last Stand"],
    "secondaryTree": ["Second Wind", "Unflinching"],
    "shards": ["Attack Speed", "Adaptive Force", "Health Scaling"],
    "explanation": "Conqueror stacks in 4 autos with passive bleed ticks."
  },
  "build": {
    "starting": [{"name": "Doran's Blade", "reason": "+8 AD, 2.5% omnivamp"}],
    "core": [
      {"name": "Black Cleaver", "reason": "30% armor shred at 5 stacks"},
      {"name": "Plated Steelcaps", "reason": "12% basic attack reduction"}
    ],
    "situational": [{"name": "Death's Dance", "reason": "delays 35% of physical damage"}],
    "explanation": "Front-load AD and health."
  },
  "skills": {"maxOrder": ["Q", "E", "W"], "explanation": "Q gains 20 base damage per rank."},
  "mathAnalysis": {
    "tradingPattern": "Trade when Aatrox Q3 is on cooldown (14s at rank 1).",
    "efficiencyStats": "Black Cleaver is 111% gold efficient."
  },
  "powerCurve": [
    {"time": 0, "myPower": 55, "enemyPower": 50},
    {"time": 5, "myPower": 62, "enemyPower": 52},
    {"time": 10, "myPower": 60, "enemyPower": 58}
  ]
}`

func fenced(body string) string {
	return "Here is the analysis.\n\n```json\n" + body + "\n```\n\nGood luck on the Rift."
}

// withoutKey re-encodes validRecord with one top-level key removed.
func withoutKey(key string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(validRecord), &m); err != nil {
		panic(err)
	}
	delete(m, key)
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// withKey re-encodes validRecord with one top-level key replaced.
func withKey(key string, value any) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(validRecord), &m); err != nil {
		panic(err)
	}
	m[key] = value
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func groundingMetadata(titles ...string) *genai.GroundingMetadata {
	gm := &genai.GroundingMetadata{}
	for _, title := range titles {
		gm.GroundingChunks = append(gm.GroundingChunks, &genai.GroundingChunk{
			Web: &genai.GroundingChunkWeb{Title: title, URI: "https://" + title + "/page"},
		})
	}
	return gm
}
