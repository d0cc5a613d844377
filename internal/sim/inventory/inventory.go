package inventory

// Stack is an item kind and count held in one slot. The zero Stack is empty.
type Stack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func (s Stack) Empty() bool { return s.Item == "" || s.Count <= 0 }

// Inventory is a fixed-size slot array. Slot indexes are stable.
type Inventory struct {
	Slots []Stack `json:"slots"`
}

func New(size int) *Inventory {
	if size <= 0 {
		size = 36
	}
	return &Inventory{Slots: make([]Stack, size)}
}

// FindSlot returns the first slot holding item.
func (inv *Inventory) FindSlot(item string) (int, bool) {
	if inv == nil || item == "" {
		return -1, false
	}
	for i, s := range inv.Slots {
		if !s.Empty() && s.Item == item {
			return i, true
		}
	}
	return -1, false
}

func (inv *Inventory) Stack(slot int) Stack {
	if inv == nil || slot < 0 || slot >= len(inv.Slots) {
		return Stack{}
	}
	return inv.Slots[slot]
}

// Add puts n of item into an existing stack of the same item or the first
// empty slot. It reports false when no slot is available.
func (inv *Inventory) Add(item string, n int) bool {
	if item == "" || n <= 0 {
		return true
	}
	if i, ok := inv.FindSlot(item); ok {
		inv.Slots[i].Count += n
		return true
	}
	for i := range inv.Slots {
		if inv.Slots[i].Empty() {
			inv.Slots[i] = Stack{Item: item, Count: n}
			return true
		}
	}
	return false
}

// Take removes one item from slot; the slot is cleared when it runs out.
func (inv *Inventory) Take(slot int) bool {
	if inv == nil || slot < 0 || slot >= len(inv.Slots) || inv.Slots[slot].Empty() {
		return false
	}
	inv.Slots[slot].Count--
	if inv.Slots[slot].Count <= 0 {
		inv.Slots[slot] = Stack{}
	}
	return true
}

func (inv *Inventory) Count(item string) int {
	if inv == nil {
		return 0
	}
	n := 0
	for _, s := range inv.Slots {
		if !s.Empty() && s.Item == item {
			n += s.Count
		}
	}
	return n
}
