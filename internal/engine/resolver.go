package engine

import (
	"sort"
	"strings"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// ResolvedNodes holds the fully-qualified data-source addresses one alert
// config needs for the current cycle. Recomputed every cycle, never persisted.
type ResolvedNodes struct {
	Config    alerts.AlertConfig
	PVAddress string
	Events    map[alerts.LimitClass]string
}

// resolve expands each config through its pattern into node addresses and
// returns the deduplicated, sorted union of addresses to read. The process
// value is always resolved but only enters the read set when at least one
// limit class is monitored.
func resolve(snapshot Snapshot, separator string) ([]ResolvedNodes, []string) {
	var nodes []ResolvedNodes
	readSet := make(map[string]struct{})

	for _, config := range snapshot.Configs {
		pattern, ok := snapshot.Patterns[config.PatternID]
		if !ok {
			continue
		}
		node := ResolvedNodes{
			Config:    config,
			PVAddress: joinAddress(config.TagBase, pattern.PVSuffix, separator),
			Events:    make(map[alerts.LimitClass]string),
		}
		for _, class := range config.MonitoredClasses() {
			address := joinAddress(config.TagBase, pattern.EventSuffix(class), separator)
			node.Events[class] = address
			readSet[address] = struct{}{}
		}
		if len(node.Events) > 0 {
			readSet[node.PVAddress] = struct{}{}
		}
		nodes = append(nodes, node)
	}

	addresses := make([]string, 0, len(readSet))
	for address := range readSet {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	return nodes, addresses
}

// joinAddress concatenates base and suffix with the separator, eliding the
// separator when the suffix already starts with it.
func joinAddress(base, suffix, separator string) string {
	if suffix == "" {
		return base
	}
	if separator != "" && strings.HasPrefix(suffix, separator) {
		return base + suffix
	}
	return base + separator + suffix
}
