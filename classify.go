package axe

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfiguredPathSentinel is the target that selects the configured input
// directory.
const ConfiguredPathSentinel = "path"

// networkMarkers flag a target as a URL rather than a missing path.
var networkMarkers = []string{"arxiv.org", "http://", "https://"}

// Classify resolves a target string to a SourceItem. Relative paths are
// resolved against cwd. A target that is neither an existing path nor a
// recognizable locator yields a *NotFoundError carrying the original string.
func Classify(target, configuredInputPath, cwd string) (SourceItem, error) {
	switch target {
	case ".":
		return SourceItem{Locator: cwd, Kind: KindDirectory}, nil
	case ConfiguredPathSentinel:
		return SourceItem{Locator: configuredInputPath, Kind: KindConfiguredPath}, nil
	}

	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return SourceItem{Locator: path, Kind: KindDirectory}, nil
		}
		if info.Mode().IsRegular() {
			return SourceItem{Locator: path, Kind: KindFile}, nil
		}
	}

	if isNetworkLocator(target) {
		return SourceItem{Locator: target, Kind: KindURLOrID}, nil
	}
	return SourceItem{}, &NotFoundError{Target: target}
}

func isNetworkLocator(target string) bool {
	lower := strings.ToLower(target)
	for _, m := range networkMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	_, ok := ExtractIdentifier(target)
	return ok
}
