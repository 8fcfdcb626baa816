package assets

import (
	"sort"

	"docprep/internal/textutil"
)

// IsUsed reports whether refs names the asset, either verbatim or without its
// final extension. LaTeX accepts both spellings.
func IsUsed(asset Asset, refs ReferenceSet) bool {
	return refs.Has(asset.Ref) || refs.Has(textutil.TrimExt(asset.Ref))
}

// Unused returns the assets no reference names, ordered by Rel so the result
// does not depend on the order of all.
func Unused(all []Asset, refs ReferenceSet) []Asset {
	unused := make([]Asset, 0, len(all))
	for _, asset := range all {
		if IsUsed(asset, refs) {
			continue
		}
		unused = append(unused, asset)
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Rel < unused[j].Rel })
	return unused
}

// Unresolved returns the references that match no scanned asset, sorted.
// References to pictures outside the scan root show up here too.
func Unresolved(all []Asset, refs ReferenceSet) []string {
	covered := make(map[string]struct{}, len(all)*2)
	for _, asset := range all {
		covered[asset.Ref] = struct{}{}
		covered[textutil.TrimExt(asset.Ref)] = struct{}{}
	}
	var missing []string
	for ref := range refs {
		if _, ok := covered[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	sort.Strings(missing)
	return missing
}
