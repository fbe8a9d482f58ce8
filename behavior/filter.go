package behavior

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

// DefaultBlacklist lists the blocks a triggerable block never acts on when it
// is configured as a blacklist without any blocks.
var DefaultBlacklist = []cblock.Key{
	cblock.MustKey("minecraft:bedrock"),
	cblock.MustKey("minecraft:end_portal_frame"),
	cblock.MustKey("minecraft:end_portal"),
	cblock.MustKey("minecraft:nether_portal"),
	cblock.MustKey("minecraft:barrier"),
	cblock.MustKey("minecraft:command_block"),
	cblock.MustKey("minecraft:chain_command_block"),
	cblock.MustKey("minecraft:repeating_command_block"),
	cblock.MustKey("minecraft:structure_block"),
	cblock.MustKey("minecraft:end_gateway"),
	cblock.MustKey("minecraft:jigsaw"),
	cblock.MustKey("minecraft:structure_void"),
	cblock.MustKey("minecraft:moving_piston"),
	cblock.MustKey("minecraft:light"),
}

// BlockFilter decides which blocks a triggerable block may act on. In
// whitelist mode only listed blocks are allowed; in blacklist mode every block
// except the listed ones is.
type BlockFilter struct {
	set       map[cblock.Key]struct{}
	whitelist bool
}

// NewBlockFilter creates a filter over blocks. A blacklist without blocks
// falls back to DefaultBlacklist.
func NewBlockFilter(blocks []cblock.Key, whitelist bool) BlockFilter {
	if len(blocks) == 0 && !whitelist {
		blocks = DefaultBlacklist
	}
	set := make(map[cblock.Key]struct{}, len(blocks))
	for _, k := range blocks {
		set[k] = struct{}{}
	}
	return BlockFilter{set: set, whitelist: whitelist}
}

// Whitelist reports whether the filter is in whitelist mode.
func (f BlockFilter) Whitelist() bool {
	return f.whitelist
}

// Contains reports whether id is listed.
func (f BlockFilter) Contains(id cblock.Key) bool {
	_, ok := f.set[id]
	return ok
}

// Len returns the number of listed blocks.
func (f BlockFilter) Len() int {
	return len(f.set)
}

// Allowed reports whether the block id passes the filter.
func (f BlockFilter) Allowed(id cblock.Key) bool {
	return f.Contains(id) == f.whitelist
}

// AllowedAt reports whether the block at pos passes the filter. Air never does.
func (f BlockFilter) AllowedAt(w cblock.World, pos cube.Pos) bool {
	id, ok := cblock.BlockID(w, pos)
	if !ok {
		return false
	}
	return f.Allowed(id)
}

// ParseFilter reads the "whitelist" and "blocks" arguments of a filtered
// behavior. "blocks" may be a single identifier or a list of them.
func ParseFilter(owner *cblock.CustomBlock, behavior cblock.Key, args cblock.Args) (BlockFilter, error) {
	whitelist := false
	if raw, ok := args["whitelist"]; ok && raw != nil {
		b, ok := raw.(bool)
		if !ok {
			return BlockFilter{}, cblock.InvalidArgument(owner.Key(), behavior, "whitelist", fmt.Errorf("expected a bool, got %T", raw))
		}
		whitelist = b
	}

	names, err := stringList(args["blocks"])
	if err != nil {
		return BlockFilter{}, cblock.InvalidArgument(owner.Key(), behavior, "blocks", err)
	}
	blocks := make([]cblock.Key, 0, len(names))
	for _, name := range names {
		k, err := cblock.ParseKey(name)
		if err != nil {
			return BlockFilter{}, cblock.InvalidArgument(owner.Key(), behavior, "blocks", err)
		}
		blocks = append(blocks, k)
	}
	return NewBlockFilter(blocks, whitelist), nil
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected a string, got %T", i, e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings, got %T", raw)
	}
}
