package projection

import "strings"

// ParseFields splits a comma-separated field selection into dotted paths.
// Empty entries and surrounding whitespace are dropped; an empty selection
// yields nil, meaning "defaults only".
func ParseFields(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paths = append(paths, part)
		}
	}

	if len(paths) == 0 {
		return nil
	}
	return paths
}

// Wants reports whether any requested path is exactly field or nested under
// it (field followed by a dot).
func Wants(paths []string, field string) bool {
	for _, path := range paths {
		if path == field || strings.HasPrefix(path, field+".") {
			return true
		}
	}
	return false
}

// includeSet builds the set of top-level fields to emit: the entity's default
// fields plus the leading segment of every requested path. Addressing a
// nested collection folds that collection's default field set in as well, so
// deep requests never suppress the collection's baseline shape.
func includeSet(defaultFields []string, paths []string) map[string]bool {
	include := make(map[string]bool, len(defaultFields)+len(paths))
	for _, field := range defaultFields {
		include[field] = true
	}

	for _, path := range paths {
		head, _, _ := strings.Cut(path, ".")
		include[head] = true
		for _, field := range nestedDefaults[head] {
			include[field] = true
		}
	}

	return include
}

// suffixesByField partitions requested paths by leading segment, keeping the
// remainder of each dotted path scoped to that field. A path with no suffix
// contributes nothing here: that field is included verbatim, unexpanded.
func suffixesByField(paths []string) map[string][]string {
	suffixes := make(map[string][]string)
	for _, path := range paths {
		head, rest, found := strings.Cut(path, ".")
		if found && rest != "" {
			suffixes[head] = append(suffixes[head], rest)
		}
	}
	return suffixes
}
