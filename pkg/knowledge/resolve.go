package knowledge

import (
	"sort"
	"strings"

	"github.com/vidgraph/backend/pkg/common"
)

// ResolveEntities collapses raw mentions into canonical entity records keyed
// by normalized phrase. Resolution is order-independent: the mention list is
// sorted before merging, so feeding the same multiset of mentions in any
// order produces an identical entity set.
func ResolveEntities(mentions []RawMention) []common.Entity {
	ordered := make([]RawMention, len(mentions))
	copy(ordered, mentions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DocumentID != ordered[j].DocumentID {
			return ordered[i].DocumentID < ordered[j].DocumentID
		}
		if ordered[i].KeyPointIndex != ordered[j].KeyPointIndex {
			return ordered[i].KeyPointIndex < ordered[j].KeyPointIndex
		}
		return ordered[i].NormalizedPhrase < ordered[j].NormalizedPhrase
	})

	byID := make(map[string]*common.Entity)
	for _, m := range ordered {
		id := m.NormalizedPhrase
		if id == "" {
			continue
		}

		entity, ok := byID[id]
		if !ok {
			byID[id] = &common.Entity{
				ID:              id,
				Label:           m.DisplayLabel,
				Type:            m.Type,
				Description:     m.Description,
				SourceDocuments: []string{m.DocumentID},
				Mentions:        []common.Mention{{DocumentID: m.DocumentID, KeyPointIndex: m.KeyPointIndex}},
			}
			continue
		}

		// Append the new description only when it adds text; a repeated key
		// point must not grow the description without bound.
		if m.Description != "" && !strings.Contains(entity.Description, m.Description) {
			if entity.Description == "" {
				entity.Description = m.Description
			} else {
				entity.Description = entity.Description + "\n\n" + m.Description
			}
		}

		if !containsString(entity.SourceDocuments, m.DocumentID) {
			entity.SourceDocuments = append(entity.SourceDocuments, m.DocumentID)
		}

		entity.Mentions = append(entity.Mentions, common.Mention{
			DocumentID:    m.DocumentID,
			KeyPointIndex: m.KeyPointIndex,
		})
	}

	entities := make([]common.Entity, 0, len(byID))
	for _, e := range byID {
		entities = append(entities, *e)
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})
	return entities
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
