package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lolmath/internal/logging"
)

type championDetailFile struct {
	Data map[string]struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Spells  []Spell `json:"spells"`
		Passive Spell   `json:"passive"`
	} `json:"data"`
}

// FetchAbilityDetail fetches the ability images for one champion from its
// per-champion document. It is not part of the bulk load. Any miss or
// failure returns (nil, false); callers treat that as "no icon available".
// Successful results are memoized per champion for the life of the Store.
func (s *Store) FetchAbilityDetail(ctx context.Context, championName string) (*AbilityDetail, bool) {
	id, ok := s.ChampionID(championName)
	if !ok {
		logging.CatalogDebug("ability detail: unknown champion %q", championName)
		return nil, false
	}
	if cached, ok := s.abilities.Load(id); ok {
		return cached.(*AbilityDetail), true
	}

	if ctx.Err() != nil {
		return nil, false
	}

	ch := s.group.DoChan("ability:"+id, func() (interface{}, error) {
		if cached, ok := s.abilities.Load(id); ok {
			return cached, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.fetchBudget())
		defer cancel()

		detail, err := s.fetchAbilityDetail(fctx, id)
		if err != nil {
			return nil, err
		}
		s.abilities.Store(id, detail)
		return detail, nil
	})

	select {
	case <-ctx.Done():
		logging.CatalogDebug("ability detail for %s abandoned: %v", id, ctx.Err())
		return nil, false
	case res := <-ch:
		if res.Err != nil {
			logging.CatalogWarn("ability detail for %s unavailable: %v", id, res.Err)
			return nil, false
		}
		return res.Val.(*AbilityDetail), true
	}
}

func (s *Store) fetchAbilityDetail(ctx context.Context, id string) (*AbilityDetail, error) {
	version := s.Version()
	var detail *AbilityDetail

	err := s.fetchDocument(ctx, version, "champion/"+id, func(body []byte) error {
		var f championDetailFile
		if err := json.Unmarshal(body, &f); err != nil {
			return err
		}
		entry, ok := f.Data[id]
		if !ok {
			return fmt.Errorf("document has no entry for %s", id)
		}
		if len(entry.Spells) == 0 {
			return errors.New("document has no spells")
		}
		d := &AbilityDetail{ID: id, Name: entry.Name, Passive: entry.Passive}
		copy(d.Spells[:], entry.Spells)
		detail = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ResolveAbilityIcon returns the icon URL of a champion's ability in slot
// (Q/W/E/R), or "" when the champion, its detail document or the slot image
// is unavailable.
func (s *Store) ResolveAbilityIcon(ctx context.Context, champion, slot string) string {
	detail, ok := s.FetchAbilityDetail(ctx, champion)
	if !ok {
		return ""
	}
	spell, ok := detail.Spell(slot)
	if !ok {
		return ""
	}
	return s.SpellIconURL(spell.Image.Full)
}
