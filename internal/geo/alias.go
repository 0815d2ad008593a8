package geo

import (
	"errors"
	"fmt"
	"strings"

	"streamcap/internal/constants"
)

// ErrAliasDepthExceeded reports an alias chain longer than the indirection
// budget, which in practice means a cycle in the table.
var ErrAliasDepthExceeded = errors.New("location alias indirection too deep")

type aliasEntry struct {
	box *BoundingBox
	ref string
}

// aliasTable maps case-insensitive location names to either a literal
// bounding box or another name in the table (one level of string
// indirection, resolved recursively).
var aliasTable = map[string]aliasEntry{
	"any":    {box: &BoundingBox{West: -180, South: -90, East: 180, North: 90}},
	"all":    {ref: "any"},
	"global": {ref: "any"},
	// http://www.openstreetmap.org/?box=yes&bbox=-124.848974,24.396308,-66.885444,49.384358
	"usa":             {box: &BoundingBox{West: -124.848974, South: 24.396308, East: -66.885444, North: 49.384358}},
	"continental_usa": {ref: "usa"},
}

// LookupAlias resolves name through the alias table. The second return is
// false when the name is not an alias at all; alias chains deeper than
// MaxAliasDepth fail with ErrAliasDepthExceeded.
func LookupAlias(name string) (BoundingBox, bool, error) {
	return lookupAlias(aliasTable, name)
}

func lookupAlias(table map[string]aliasEntry, name string) (BoundingBox, bool, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for depth := 0; depth < constants.MaxAliasDepth; depth++ {
		entry, ok := table[key]
		if !ok {
			return BoundingBox{}, false, nil
		}
		if entry.box != nil {
			return *entry.box, true, nil
		}
		key = strings.ToLower(entry.ref)
	}
	return BoundingBox{}, false, fmt.Errorf("%w: %q", ErrAliasDepthExceeded, name)
}
