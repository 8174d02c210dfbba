//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

// ToSet - convert a slice to a set
func ToSet[T comparable](sl []T) map[T]bool {
	s := make(map[T]bool, len(sl))
	for i := 0; i < len(sl); i++ {
		s[sl[i]] = true
	}
	return s
}

// Unique - return only the unique items from a slice, first-seen order
func Unique[T comparable](sl []T) []T {
	seen := make(map[T]bool, len(sl))
	var out []T
	for i := 0; i < len(sl); i++ {
		if !seen[sl[i]] {
			seen[sl[i]] = true
			out = append(out, sl[i])
		}
	}
	return out
}
