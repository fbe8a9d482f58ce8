package cblock

// ItemBehavior is a unit of logic attached to a CustomItem.
type ItemBehavior interface {
	// Type returns the behavior's type key.
	Type() Key
}

// BlockItemBehavior is implemented by item behaviors that place a custom block.
type BlockItemBehavior interface {
	ItemBehavior
	// Block returns the key of the custom block the item places.
	Block() Key
}

// BlockItemType is the type key of BlockItem.
var BlockItemType = Key{Namespace: BehaviorNamespace, Path: "block_item"}

// BlockItem makes an item place a custom block.
type BlockItem struct {
	BlockKey Key
}

// Type returns BlockItemType.
func (BlockItem) Type() Key { return BlockItemType }

// Block returns the key of the custom block the item places.
func (b BlockItem) Block() Key { return b.BlockKey }

// CustomItem is a custom item type with its ordered item behaviors.
type CustomItem struct {
	key       Key
	behaviors []ItemBehavior
}

// Key returns the item's identifier.
func (i *CustomItem) Key() Key {
	return i.key
}

// Behaviors returns the item behaviors in declaration order.
func (i *CustomItem) Behaviors() []ItemBehavior {
	out := make([]ItemBehavior, len(i.behaviors))
	copy(out, i.behaviors)
	return out
}

// BlockItems returns the item's block-placing behaviors in declaration order.
func (i *CustomItem) BlockItems() []BlockItemBehavior {
	var out []BlockItemBehavior
	for _, b := range i.behaviors {
		if bi, ok := b.(BlockItemBehavior); ok {
			out = append(out, bi)
		}
	}
	return out
}

// ItemSpec declares a custom item.
type ItemSpec struct {
	Key       Key
	Behaviors []ItemBehavior
}
