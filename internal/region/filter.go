package region

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Sentinel list entries that name no metro area.
var sentinelEntries = map[string]bool{
	"Other": true,
	"Rural": true,
}

// LoadTargets reads the target metro allow-list, one name per line. Sentinel
// lines and blanks are dropped. A missing file is not an error: it means no
// filter, keep everything.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "region: open target list %s", path)
	}
	defer func() { _ = f.Close() }()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || sentinelEntries[name] {
			continue
		}
		targets = append(targets, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "region: read target list %s", path)
	}

	zap.L().Info("target metro list loaded", zap.String("path", path), zap.Int("targets", len(targets)))
	return targets, nil
}

// normalizeTarget reduces a target list entry to its main-city token:
// lowercased, cut at the first comma, trailing " msa" suffix stripped.
// "Phoenix-Mesa-Chandler, AZ MSA" becomes "phoenix-mesa-chandler".
func normalizeTarget(target string) string {
	main := strings.ToLower(target)
	if i := strings.Index(main, ","); i >= 0 {
		main = main[:i]
	}
	main = strings.TrimSuffix(strings.TrimSpace(main), " msa")
	return strings.TrimSpace(main)
}

// matchesTarget reports whether a region name matches any allow-list entry.
// The match is a substring check of the entry's normalized main-city token
// against the lowercased region name, so "Phoenix-Mesa-Chandler, AZ MSA"
// retains a region named "Phoenix-Mesa-Chandler, AZ Metro Statistical Area".
func matchesTarget(regionName string, targets []string) bool {
	nameClean := strings.ToLower(regionName)
	for _, target := range targets {
		main := normalizeTarget(target)
		if main == "" {
			continue
		}
		if strings.Contains(nameClean, main) {
			return true
		}
	}
	return false
}

// filterRegions keeps only regions matching the allow-list. An empty list
// keeps all regions.
func filterRegions(regions []*Region, targets []string) []*Region {
	if len(targets) == 0 {
		return regions
	}
	kept := make([]*Region, 0, len(regions))
	for _, r := range regions {
		if matchesTarget(r.Name, targets) {
			kept = append(kept, r)
		}
	}
	return kept
}
