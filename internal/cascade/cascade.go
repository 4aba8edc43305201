// AngelaMos | 2026
// cascade.go

// Package cascade holds the one filtering rule shared by every hierarchical
// picker in the service: a level's choices are the distinct values of a
// field among the rows that match every earlier choice exactly.
package cascade

// Distinct returns the distinct values of key over rows in first-appearance
// order. Blank values are never returned: an empty choice means "nothing
// selected" in Walk, so a blank cannot be offered as a level's value.
func Distinct[T any](rows []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0)

	for _, row := range rows {
		v := key(row)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Where keeps the rows whose key equals value. Matching is exact and
// case-sensitive.
func Where[T any](rows []T, key func(T) string, value string) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if key(row) == value {
			out = append(out, row)
		}
	}
	return out
}

// Step describes one level of a cascade: the field it reads and the value
// chosen at that level, if any.
type Step[T any] struct {
	Key    func(T) string
	Chosen string
}

// Walk applies the steps in order. It returns the choices available at each
// level, stopping after the first level with no chosen value; deeper levels
// are left nil. When a chosen value matches nothing, every deeper level is
// reported as empty.
func Walk[T any](rows []T, steps ...Step[T]) [][]string {
	levels := make([][]string, len(steps))

	for i, step := range steps {
		levels[i] = Distinct(rows, step.Key)
		if step.Chosen == "" {
			break
		}
		rows = Where(rows, step.Key, step.Chosen)
	}

	return levels
}
