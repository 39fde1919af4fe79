package generator

import "context"

// GenerateExerciseImage is the hook for exercise diagrams. Image generation is
// disabled: it returns an empty reference and never contacts a provider, so
// callers fall back to the textual description.
func GenerateExerciseImage(ctx context.Context, description string) (string, error) {
	return "", nil
}
