// package models defines the data model for the nmx music client
package models

// Identified is implemented by every entity that is matched by ID in lists.
type Identified interface {
	Key() int64
}

// FindIndex returns the position of target in list, compared by ID, or -1 when absent.
func FindIndex[T Identified](list []T, target T) int {
	id := target.Key()
	for i, item := range list {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

// Remove returns a copy of list without the element at index i.
func Remove[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
