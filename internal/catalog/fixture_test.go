package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const testVersion = "14.1.1"

const championJSON = `{
  "type": "champion", "version": "14.1.1",
  "data": {
    "Aatrox":     {"id": "Aatrox", "key": "266", "name": "Aatrox", "title": "the Darkin Blade", "image": {"full": "Aatrox.png"}},
    "MonkeyKing": {"id": "MonkeyKing", "key": "62", "name": "Wukong", "title": "the Monkey King", "image": {"full": "MonkeyKing.png"}},
    "LeeSin":     {"id": "LeeSin", "key": "64", "name": "Lee Sin", "title": "the Blind Monk", "image": {"full": "LeeSin.png"}},
    "Darius":     {"id": "Darius", "key": "122", "name": "Darius", "title": "the Hand of Noxus", "image": {"full": "Darius.png"}}
  }
}`

const itemJSON = `{
  "type": "item", "version": "14.1.1",
  "data": {
    "1001":   {"name": "Boots", "image": {"full": "1001.png"}, "gold": {"base": 300, "total": 300, "purchasable": true}},
    "1055":   {"name": "Doran's Blade", "image": {"full": "1055.png"}},
    "3026":   {"name": "Guardian Angel", "image": {"full": "3026.png"}},
    "3031":   {"name": "Infinity Edge", "image": {"full": "3031.png"}},
    "223031": {"name": "Infinity Edge", "image": {"full": "223031.png"}},
    "3036":   {"name": "Lord Dominik's Regards", "image": {"full": "3036.png"}},
    "3047":   {"name": "Plated Steelcaps", "image": {"full": "3047.png"}},
    "3071":   {"name": "Black Cleaver", "image": {"full": "3071.png"}},
    "3089":   {"name": "Rabadon's Deathcap", "image": {"full": "3089.png"}},
    "3094":   {"name": "Rapid Firecannon", "image": {"full": "3094.png"}},
    "3111":   {"name": "Mercury's Treads", "image": {"full": "3111.png"}},
    "3140":   {"name": "Quicksilver Sash", "image": {"full": "3140.png"}},
    "3153":   {"name": "Blade of the Ruined King", "image": {"full": "3153.png"}},
    "3157":   {"name": "Zhonya's Hourglass", "image": {"full": "3157.png"}},
    "3158":   {"name": "Ionian Boots of Lucidity", "image": {"full": "3158.png"}},
    "6333":   {"name": "Death's Dance", "image": {"full": "6333.png"}}
  }
}`

const runesJSON = `[
  {"id": 8000, "key": "Precision", "name": "Precision", "icon": "perk-images/Styles/7201_Precision.png",
   "slots": [
     {"runes": [
       {"id": 8005, "key": "PressTheAttack", "name": "Press the Attack", "icon": "perk-images/Styles/Precision/PressTheAttack/PressTheAttack.png"},
       {"id": 8010, "key": "Conqueror", "name": "Conqueror", "icon": "perk-images/Styles/Precision/Conqueror/Conqueror.png"}
     ]},
     {"runes": [
       {"id": 9111, "key": "Triumph", "name": "Triumph", "icon": "perk-images/Styles/Precision/Triumph.png"}
     ]}
   ]},
  {"id": 8400, "key": "Resolve", "name": "Resolve", "icon": "perk-images/Styles/7204_Resolve.png",
   "slots": [
     {"runes": [
       {"id": 8437, "key": "GraspOfTheUndying", "name": "Grasp of the Undying", "icon": "perk-images/Styles/Resolve/GraspOfTheUndying/GraspOfTheUndying.png"}
     ]},
     {"runes": [
       {"id": 8444, "key": "SecondWind", "name": "Second Wind", "icon": "perk-images/Styles/Resolve/SecondWind/SecondWind.png"}
     ]}
   ]}
]`

const summonerJSON = `{
  "type": "summoner", "version": "14.1.1",
  "data": {
    "SummonerFlash":    {"id": "SummonerFlash", "key": "4", "name": "Flash", "image": {"full": "SummonerFlash.png"}},
    "SummonerDot":      {"id": "SummonerDot", "key": "14", "name": "Ignite", "image": {"full": "SummonerDot.png"}},
    "SummonerTeleport": {"id": "SummonerTeleport", "key": "12", "name": "Teleport", "image": {"full": "SummonerTeleport.png"}}
  }
}`

const aatroxDetailJSON = `{
  "type": "champion", "version": "14.1.1",
  "data": {
    "Aatrox": {
      "id": "Aatrox", "name": "Aatrox",
      "spells": [
        {"id": "AatroxQ", "name": "The Darkin Blade", "image": {"full": "AatroxQ.png"}},
        {"id": "AatroxW", "name": "Infernal Chains", "image": {"full": "AatroxW.png"}},
        {"id": "AatroxE", "name": "Umbral Dash", "image": {"full": "AatroxE.png"}},
        {"id": "AatroxR", "name": "World Ender", "image": {"full": "AatroxR.png"}}
      ],
      "passive": {"name": "Deathbringer Stance", "image": {"full": "Aatrox_Passive.png"}}
    }
  }
}`

// fakeDDragon serves the fixtures above and counts hits per path.
type fakeDDragon struct {
	*httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	status map[string]int    // forced status per path
	bodies map[string]string // response body per path
	delay  time.Duration
}

func newFakeDDragon(t *testing.T) *fakeDDragon {
	t.Helper()
	f := &fakeDDragon{
		hits:   make(map[string]int),
		status: make(map[string]int),
		bodies: map[string]string{
			"/api/versions.json":                              `["14.1.1", "13.24.1"]`,
			"/cdn/14.1.1/data/en_US/champion.json":            championJSON,
			"/cdn/14.1.1/data/en_US/item.json":                itemJSON,
			"/cdn/14.1.1/data/en_US/runesReforged.json":       runesJSON,
			"/cdn/14.1.1/data/en_US/summoner.json":            summonerJSON,
			"/cdn/14.1.1/data/en_US/champion/Aatrox.json":     aatroxDetailJSON,
			"/cdn/14.1.1/data/en_US/champion/MonkeyKing.json": `{"data": {}}`,
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeDDragon) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	status, forced := f.status[r.URL.Path]
	body, ok := f.bodies[r.URL.Path]
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if forced {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeDDragon) setStatus(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = status
}

func (f *fakeDDragon) setBody(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = body
}

func (f *fakeDDragon) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// catalogHits counts requests to the four bulk catalog documents.
func (f *fakeDDragon) catalogHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for path, c := range f.hits {
		if strings.HasPrefix(path, "/cdn/") && !strings.Contains(path, "/champion/") {
			n += c
		}
	}
	return n
}

func (f *fakeDDragon) store(opts ...Option) *Store {
	cfg := Config{
		BaseURL:      f.URL,
		FetchTimeout: 2 * time.Second,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	}
	return New(cfg, append([]Option{WithHTTPClient(f.Client())}, opts...)...)
}

// memCache is an in-memory Cache.
type memCache struct {
	mu    sync.Mutex
	blobs map[string][]byte
	saves int
}

func newMemCache() *memCache { return &memCache{blobs: make(map[string][]byte)} }

func (c *memCache) Lookup(version, kind string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blobs[version+"/"+kind]
	return b, ok
}

func (c *memCache) Save(version, kind string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blobs[version+"/"+kind] = body
	c.saves++
	return nil
}

// instantClock fires immediately and records every requested wait.
type instantClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (c *instantClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}
