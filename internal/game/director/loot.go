package director

import (
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/dice"
)

// LootResult holds the drops from one death roll.
type LootResult struct {
	// Item is the single dropped item, or nil.
	Item *content.ItemDef
	// Credits is the dropped currency value; zero means no credit drop.
	Credits int
}

// RollLoot rolls items in their fixed order against dropChance*(1+dropBonus)
// and keeps the first success. The credit roll is independent of the item roll.
//
// Postcondition: at most one item is returned; one draw is consumed per item
// checked plus one for credits.
func RollLoot(items []*content.ItemDef, dropBonus, creditChance float64, creditValue int, roller *dice.Roller) LootResult {
	var res LootResult
	for _, it := range items {
		if roller.Chance("drop:"+it.ID, it.DropChance*(1+dropBonus)) {
			res.Item = it
			break
		}
	}
	if roller.Chance("drop:credit", creditChance) {
		res.Credits = creditValue
	}
	return res
}
