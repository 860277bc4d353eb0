// Package utils contains general helper functions used across the treeline tool.
package utils

// DeduplicateNames removes duplicate names from a slice while preserving order.
// The first occurrence of each unique name is kept.
func DeduplicateNames(names []string) []string {
	encounteredNames := make(map[string]struct{})
	result := make([]string, 0, len(names))
	for _, name := range names {
		if _, exists := encounteredNames[name]; !exists {
			encounteredNames[name] = struct{}{}
			result = append(result, name)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}
