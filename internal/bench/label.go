package bench

import (
	"fmt"
	"strings"
)

// MethodLabel derives the method name from a result file path.
//
// Paths are expected to look like <prefix>/<method>/<file>; the label is the
// second "/"-separated component. A two-component path <method>/<file> is
// labelled by its directory. Anything shorter, or a path whose label
// component is empty, is rejected with ErrMalformedPath.
func MethodLabel(path string) (string, error) {
	parts := strings.Split(path, "/")

	var label string
	switch {
	case len(parts) < 2:
		return "", fmt.Errorf("%w: %q has no directory component", ErrMalformedPath, path)
	case len(parts) == 2:
		label = parts[0]
	default:
		label = parts[1]
	}

	if label == "" {
		return "", fmt.Errorf("%w: %q has an empty method component", ErrMalformedPath, path)
	}
	return label, nil
}
