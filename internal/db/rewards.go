package db

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dori/tallyboard/internal/model"
)

// Rewards document schema versions
const (
	// rewardsV0 stored a single numeric "goal" next to the points
	rewardsV0 = 0
	// rewardsV1 stores a "goals" list
	rewardsV1 = 1

	rewardsCurrent = rewardsV1
)

type rawDoc map[string]json.RawMessage

// rewardsMigrations upgrades a raw rewards document from the indexed version to the next
var rewardsMigrations = map[int]func(rawDoc) rawDoc{
	rewardsV0: migrateRewardsV0,
}

// LoadRewards loads the rewards document, upgrading legacy shapes on read.
// The upgraded document is only written back on the next save.
func (db *DB) LoadRewards() model.Rewards {
	raw, ok, err := db.Get(KeyRewards)
	if err != nil {
		db.log.Warn().Err(err).Str("key", KeyRewards).Msg("document read failed, using default")
		return SeedRewards()
	}
	if !ok {
		r := SeedRewards()
		if err := SaveDocument(db, KeyRewards, r); err != nil {
			db.log.Warn().Err(err).Str("key", KeyRewards).Msg("failed to persist seed")
		}
		return r
	}

	r, err := DecodeRewards([]byte(raw))
	if err != nil {
		db.log.Warn().Err(err).Str("key", KeyRewards).Msg("malformed document, using default")
		return SeedRewards()
	}
	return r
}

// DecodeRewards decodes a stored rewards document of any known version.
// Valid JSON that is not an object decodes to the empty document.
func DecodeRewards(data []byte) (model.Rewards, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return model.Rewards{}, err
	}
	if _, isObject := v.(map[string]interface{}); !isObject {
		return SeedRewards(), nil
	}

	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Rewards{}, err
	}

	for version := rewardsVersion(doc); version < rewardsCurrent; version++ {
		if migrate, ok := rewardsMigrations[version]; ok {
			doc = migrate(doc)
		}
	}

	points, _ := number(doc["points"])
	r := model.Rewards{
		Points: nonNegativeInt(points),
		Goals:  []model.Goal{},
	}

	if isArray(doc["goals"]) {
		var items []json.RawMessage
		if err := json.Unmarshal(doc["goals"], &items); err != nil {
			return model.Rewards{}, err
		}
		for _, item := range items {
			var g rawDoc
			if json.Unmarshal(item, &g) != nil || g == nil {
				continue
			}
			r.Goals = append(r.Goals, decodeGoal(g))
		}
	}

	return r, nil
}

// decodeGoal reads one stored goal. Targets go through the same loose number
// coercion as points, so a fractional or string target cannot fail the document.
func decodeGoal(g rawDoc) model.Goal {
	target, _ := number(g["target"])
	id := text(g["id"])
	if id == "" {
		id = model.NewID(model.PrefixGoal)
	}
	return model.Goal{
		ID:     id,
		Title:  text(g["title"]),
		Target: nonNegativeInt(target),
	}
}

// text returns a JSON string value, or "" for anything else
func text(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// rewardsVersion classifies a raw document. A goals array wins over a legacy
// goal; documents with neither are treated as current with no goals.
func rewardsVersion(doc rawDoc) int {
	if isArray(doc["goals"]) {
		return rewardsV1
	}
	// Missing, null, zero or empty goals all count as absent
	_, hasGoals := number(doc["goals"])
	if _, truthy := number(doc["goal"]); truthy && !hasGoals {
		return rewardsV0
	}
	return rewardsCurrent
}

func migrateRewardsV0(doc rawDoc) rawDoc {
	target, _ := number(doc["goal"])
	if math.IsNaN(target) {
		target = 0
	}

	goals, _ := json.Marshal([]model.Goal{{
		ID:     model.NewID(model.PrefixGoal),
		Title:  "Goal",
		Target: model.Round(target),
	}})

	out := rawDoc{"points": doc["points"], "goals": goals}
	return out
}

func nonNegativeInt(f float64) int {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return model.Round(f)
}

func isArray(raw json.RawMessage) bool {
	return len(raw) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("["))
}

// number coerces a JSON value to a number the way loosely typed documents
// expect: numeric strings parse, booleans are 0/1, null and absent are 0.
// truthy reports whether the raw value was non-empty and non-zero.
func number(raw json.RawMessage) (f float64, truthy bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	switch x := v.(type) {
	case float64:
		return x, x != 0
	case bool:
		if x {
			return 1, true
		}
		return 0, false
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, x != ""
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), true
		}
		return parsed, true
	case nil:
		return 0, false
	default:
		// objects and arrays are truthy but not numbers
		return math.NaN(), true
	}
}
