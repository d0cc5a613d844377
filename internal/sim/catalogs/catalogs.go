package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/schemas"
)

type Catalogs struct {
	Blocks BlockCatalog
	Items  ItemCatalog

	// block kind -> first item (sorted by id) that places it
	placeItem map[string]string
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID          string `json:"id"`
	Solid       bool   `json:"solid"`
	Replaceable bool   `json:"replaceable,omitempty"`
	NoOutline   bool   `json:"no_outline,omitempty"` // air, fluids: nothing to aim at
	Interactive bool   `json:"interactive,omitempty"`
	Placement   string `json:"placement,omitempty"` // see rules package; "" = simple
}

type ItemCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // "BLOCK","TOOL","MATERIAL","TRIGGER"
	PlaceAs string `json:"place_as,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromDefs builds catalogs in memory from already parsed definitions.
func FromDefs(blocks []BlockDef, items []ItemDef) (*Catalogs, error) {
	var c Catalogs
	bRaw, _ := json.Marshal(blocks)
	if err := parseBlocks(bRaw, &c.Blocks); err != nil {
		return nil, err
	}
	iRaw, _ := json.Marshal(items)
	if err := parseItems(iRaw, &c.Items); err != nil {
		return nil, err
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalogs) index() error {
	ids := make([]string, 0, len(c.Items.Defs))
	for id := range c.Items.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.placeItem = map[string]string{}
	for _, id := range ids {
		d := c.Items.Defs[id]
		if d.PlaceAs == "" {
			continue
		}
		if _, ok := c.Blocks.Defs[d.PlaceAs]; !ok {
			return fmt.Errorf("items.json: %s places unknown block %s", d.ID, d.PlaceAs)
		}
		if _, dup := c.placeItem[d.PlaceAs]; !dup {
			c.placeItem[d.PlaceAs] = d.ID
		}
	}
	return nil
}

// ItemFor returns the item that places blocks of the given kind.
func (c *Catalogs) ItemFor(kind string) (string, bool) {
	id, ok := c.placeItem[kind]
	return id, ok
}

func (c *Catalogs) Def(kind string) (BlockDef, bool) {
	d, ok := c.Blocks.Defs[kind]
	return d, ok
}

// Replaceable reports whether a placement may overwrite s. Unknown kinds are
// treated as solid obstacles.
func (c *Catalogs) Replaceable(s block.State) bool {
	if s.IsAir() {
		return true
	}
	d, ok := c.Blocks.Defs[s.Kind]
	return ok && d.Replaceable
}

// Clickable reports whether s exposes a face that can be aimed at.
func (c *Catalogs) Clickable(s block.State) bool {
	if s.IsAir() {
		return false
	}
	d, ok := c.Blocks.Defs[s.Kind]
	return ok && !d.NoOutline
}

func (c *Catalogs) Interactive(kind string) bool {
	d, ok := c.Blocks.Defs[kind]
	return ok && d.Interactive
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := schemas.ValidateJSON("blocks.schema.json", raw); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	return parseBlocks(raw, out)
}

func parseBlocks(raw []byte, out *BlockCatalog) error {
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if d.Placement == "" {
			d.Placement = "simple"
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Ensure AIR exists and is palette id 0.
	if _, ok := out.Defs[block.Air]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{block.Air}, filterOut(ids, block.Air)...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := schemas.ValidateJSON("items.schema.json", raw); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	return parseItems(raw, out)
}

func parseItems(raw []byte, out *ItemCatalog) error {
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func filterOut(in []string, remove string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == remove {
			continue
		}
		out = append(out, s)
	}
	return out
}
