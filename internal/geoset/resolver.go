package geoset

// Defaults maps groups to their bare (unequipped) variant. The table is
// injected rather than hardcoded: the right defaults are empirically
// derived per model family, not specified by the format.
type Defaults map[Group]int

// DefaultTable returns the bare-character defaults observed on classic
// character models: body plus the "bare" variant of gloves, boots, ears,
// legs and cape.
func DefaultTable() Defaults {
	return Defaults{
		GroupBracers: 1,
		GroupBoots:   1,
		GroupEars:    1,
		GroupLegs:    1,
		GroupCape:    1,
	}
}

// HelmetMask is the suppression set a head item carries: suppressed
// groups render nothing regardless of their otherwise-active variant.
type HelmetMask struct {
	HideHair    bool
	HideFacial1 bool
	HideFacial2 bool
	HideEars    bool
}

func (m HelmetMask) groups() []Group {
	var gs []Group
	if m.HideHair {
		gs = append(gs, GroupHair)
	}
	if m.HideFacial1 {
		gs = append(gs, GroupFacial1)
	}
	if m.HideFacial2 {
		gs = append(gs, GroupFacial2)
	}
	if m.HideEars {
		gs = append(gs, GroupEars)
	}
	return gs
}

// Resolver tracks one character's equipment and customization choices and
// computes the authoritative set of visible submesh ids. The source data
// contains every variant of every group simultaneously; the resolver's
// contract is that at most one variant per group is ever active.
type Resolver struct {
	defaults   Defaults
	active     map[Group]int  // group -> active submesh id
	equipped   map[Slot]Group // which group each equipped slot currently drives
	hairID     int            // 0 = bald
	facial     map[Group]int  // facial customization (groups 2-3)
	suppressed map[Group]bool
}

// NewResolver returns a resolver in the base state: body id 0 plus the
// given bare defaults.
func NewResolver(defaults Defaults) *Resolver {
	r := &Resolver{
		defaults:   defaults,
		active:     make(map[Group]int),
		equipped:   make(map[Slot]Group),
		facial:     make(map[Group]int),
		suppressed: make(map[Group]bool),
	}
	for g, v := range defaults {
		r.active[g] = int(g)*100 + v
	}
	return r
}

// SetHairStyle selects the hairstyle variant (group 1). Variant 0 clears
// hair entirely. Body id 0 and the hairstyle coexist; this is the one
// documented exception to single-id-per-group thinking, and it holds the
// exclusivity contract trivially because they live in different groups.
func (r *Resolver) SetHairStyle(variant int) {
	if variant <= 0 {
		r.hairID = 0
		return
	}
	r.hairID = int(GroupHair)*100 + variant
}

// SetFacial selects a facial-feature variant for group 2 or 3.
func (r *Resolver) SetFacial(g Group, variant int) {
	if g != GroupFacial1 && g != GroupFacial2 {
		return
	}
	if variant <= 0 {
		delete(r.facial, g)
		return
	}
	r.facial[g] = int(g)*100 + variant
}

// Equip activates the given 1-based geoset variant for the slot's group.
// The bare default is variant 1, so an item whose metadata carries a
// 0-based override value goes through EquipItemValue instead.
func (r *Resolver) Equip(slot Slot, variant int) {
	g, ok := slotGroups[slot]
	if !ok {
		return
	}
	if variant <= 0 {
		r.Unequip(slot)
		return
	}
	r.active[g] = int(g)*100 + variant
	r.equipped[slot] = g
}

// EquipItemValue activates a slot using the metadata pipeline's 0-based
// geoset-group override value: value v selects id group*100 + v + 1.
func (r *Resolver) EquipItemValue(slot Slot, value int) {
	r.Equip(slot, value+1)
}

// Unequip returns the slot's group to its bare default (or removes it
// when the group has none).
func (r *Resolver) Unequip(slot Slot) {
	g, ok := r.equipped[slot]
	if !ok {
		if g, ok = slotGroups[slot]; !ok {
			return
		}
	}
	delete(r.equipped, slot)
	if v, ok := r.defaults[g]; ok {
		r.active[g] = int(g)*100 + v
	} else {
		delete(r.active, g)
	}
}

// SetHelmet installs a head item's suppression mask.
func (r *Resolver) SetHelmet(mask HelmetMask) {
	r.suppressed = make(map[Group]bool)
	for _, g := range mask.groups() {
		r.suppressed[g] = true
	}
}

// ClearHelmet removes the suppression mask.
func (r *Resolver) ClearHelmet() {
	r.suppressed = make(map[Group]bool)
}

// Visible returns the authoritative set of visible submesh ids. The
// renderer draws exactly the index ranges whose geoset id is in this set.
func (r *Resolver) Visible() map[int]struct{} {
	out := make(map[int]struct{}, len(r.active)+4)
	out[0] = struct{}{} // body

	if r.hairID != 0 && !r.suppressed[GroupHair] {
		out[r.hairID] = struct{}{}
	}
	for g, id := range r.facial {
		if !r.suppressed[g] {
			out[id] = struct{}{}
		}
	}
	for g, id := range r.active {
		if !r.suppressed[g] {
			out[id] = struct{}{}
		}
	}
	return out
}

// IsVisible reports whether a submesh id should render. Membership is by
// exact id: a variant merely present in the model data is not visible
// unless it is the currently chosen id for its group.
func (r *Resolver) IsVisible(id int) bool {
	_, ok := r.Visible()[id]
	return ok
}
