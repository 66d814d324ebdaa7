package geoset

import "fmt"

// Group is a geoset group: a category of interchangeable body-part
// appearances. A submesh id encodes group*100 + variant.
type Group int

const (
	GroupBody      Group = 0
	GroupHair      Group = 1
	GroupFacial1   Group = 2
	GroupFacial2   Group = 3
	GroupBracers   Group = 4
	GroupBoots     Group = 5
	GroupEars      Group = 7
	GroupSleeves   Group = 8
	GroupKneepads  Group = 9
	GroupChest     Group = 10
	GroupPants     Group = 11
	GroupTabard    Group = 12
	GroupLegs      Group = 13
	GroupCloak     Group = 14
	GroupCape      Group = 15
	GroupLoincloth Group = 16
	GroupEyeglow   Group = 17
	GroupBelt      Group = 18
)

var groupNames = map[Group]string{
	GroupBody:      "Body",
	GroupHair:      "Hair",
	GroupFacial1:   "Facial 1",
	GroupFacial2:   "Facial 2",
	GroupBracers:   "Bracers",
	GroupBoots:     "Boots",
	GroupEars:      "Ears",
	GroupSleeves:   "Sleeves",
	GroupKneepads:  "Kneepads",
	GroupChest:     "Chest",
	GroupPants:     "Pants",
	GroupTabard:    "Tabard",
	GroupLegs:      "Legs",
	GroupCloak:     "Cloak",
	GroupCape:      "Cape",
	GroupLoincloth: "Loincloth",
	GroupEyeglow:   "Eyeglow",
	GroupBelt:      "Belt",
}

func (g Group) String() string {
	if n, ok := groupNames[g]; ok {
		return n
	}
	return fmt.Sprintf("Group %d", int(g))
}

// GroupOf returns the group a submesh id belongs to.
func GroupOf(id int) Group { return Group(id / 100) }

// Slot is an equipment slot that maps onto one or more geoset groups.
type Slot int

const (
	SlotHead Slot = iota
	SlotShoulder
	SlotBack
	SlotChest
	SlotShirt
	SlotTabard
	SlotWrists
	SlotHands
	SlotWaist
	SlotLegs
	SlotFeet
)

var slotNames = map[Slot]string{
	SlotHead:     "Head",
	SlotShoulder: "Shoulder",
	SlotBack:     "Back",
	SlotChest:    "Chest",
	SlotShirt:    "Shirt",
	SlotTabard:   "Tabard",
	SlotWrists:   "Wrists",
	SlotHands:    "Hands",
	SlotWaist:    "Waist",
	SlotLegs:     "Legs",
	SlotFeet:     "Feet",
}

func (s Slot) String() string {
	if n, ok := slotNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Slot %d", int(s))
}

// slotGroups maps each slot to the geoset group its display override
// drives. Head and shoulder pieces attach as separate models and drive no
// body geoset directly (helmets act through the suppression mask instead).
var slotGroups = map[Slot]Group{
	SlotBack:   GroupCape,
	SlotChest:  GroupChest,
	SlotShirt:  GroupSleeves,
	SlotTabard: GroupTabard,
	SlotWrists: GroupBracers,
	SlotHands:  GroupBracers,
	SlotWaist:  GroupBelt,
	SlotLegs:   GroupLegs,
	SlotFeet:   GroupBoots,
}
