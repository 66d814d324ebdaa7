package geoset

import "testing"

func TestBaseState(t *testing.T) {
	r := NewResolver(DefaultTable())
	vis := r.Visible()

	for _, id := range []int{0, 401, 501, 701, 1301, 1501} {
		if _, ok := vis[id]; !ok {
			t.Errorf("base state missing id %d", id)
		}
	}
	if _, ok := vis[502]; ok {
		t.Error("base state contains non-default boots variant")
	}
}

func TestEquipBoots(t *testing.T) {
	r := NewResolver(DefaultTable())

	r.Equip(SlotFeet, 2)
	vis := r.Visible()
	if _, ok := vis[502]; !ok {
		t.Error("equipped boots variant 502 not visible")
	}
	if _, ok := vis[501]; ok {
		t.Error("bare boots 501 still visible after equip")
	}

	r.Unequip(SlotFeet)
	vis = r.Visible()
	if _, ok := vis[501]; !ok {
		t.Error("bare boots 501 not restored on unequip")
	}
	if _, ok := vis[502]; ok {
		t.Error("boots 502 still visible after unequip")
	}
}

func TestEquipItemValue(t *testing.T) {
	r := NewResolver(DefaultTable())
	// 0-based metadata override value 1 selects variant 2.
	r.EquipItemValue(SlotFeet, 1)
	if !r.IsVisible(502) {
		t.Error("item value 1 should select id 502")
	}
}

func TestGroupExclusivity(t *testing.T) {
	r := NewResolver(DefaultTable())
	r.SetHairStyle(3)
	r.SetFacial(GroupFacial1, 2)
	r.Equip(SlotFeet, 4)
	r.Equip(SlotChest, 1)
	r.Equip(SlotLegs, 2)
	r.Equip(SlotTabard, 1)
	r.Equip(SlotFeet, 2) // re-equip the same slot

	seen := make(map[Group]int)
	for id := range r.Visible() {
		g := GroupOf(id)
		if prev, ok := seen[g]; ok {
			t.Errorf("group %v has two active ids: %d and %d", g, prev, id)
		}
		seen[g] = id
	}
}

func TestHelmetSuppression(t *testing.T) {
	r := NewResolver(DefaultTable())
	r.SetHairStyle(2)
	r.SetFacial(GroupFacial1, 1)

	r.SetHelmet(HelmetMask{HideHair: true, HideFacial1: true, HideEars: true})
	vis := r.Visible()
	for _, id := range []int{102, 201, 701} {
		if _, ok := vis[id]; ok {
			t.Errorf("suppressed id %d still visible", id)
		}
	}
	// Suppression wins even over a fresh equip.
	if _, ok := vis[0]; !ok {
		t.Error("body suppressed by helmet mask")
	}

	r.ClearHelmet()
	vis = r.Visible()
	for _, id := range []int{102, 201, 701} {
		if _, ok := vis[id]; !ok {
			t.Errorf("id %d not restored after helmet removal", id)
		}
	}
}

func TestInjectedDefaults(t *testing.T) {
	r := NewResolver(Defaults{GroupLegs: 2})
	vis := r.Visible()
	if _, ok := vis[1302]; !ok {
		t.Error("injected default 1302 not visible")
	}
	if _, ok := vis[501]; ok {
		t.Error("boots default appeared without being injected")
	}
}
