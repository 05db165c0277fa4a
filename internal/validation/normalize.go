package validation

import "strings"

// CleanList trims every entry, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling. A nil input stays nil.
func CleanList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// CleanSkills is CleanList with every skill upper-cased.
func CleanSkills(skills []string) []string {
	cleaned := CleanList(skills)
	for i, s := range cleaned {
		cleaned[i] = strings.ToUpper(s)
	}
	return cleaned
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
