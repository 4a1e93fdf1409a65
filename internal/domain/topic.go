package domain

import (
	"fmt"
	"strings"
)

// Topic is the canonical topic a market is about. One pipeline per topic.
type Topic string

const (
	TopicCryptoDaily    Topic = "CRYPTO_DAILY"
	TopicCryptoIntraday Topic = "CRYPTO_INTRADAY"
	TopicMacro          Topic = "MACRO"
	TopicRates          Topic = "RATES"
	TopicElections      Topic = "ELECTIONS"
	TopicCommodities    Topic = "COMMODITIES"
	TopicSports         Topic = "SPORTS"
	TopicGeopolitics    Topic = "GEOPOLITICS"
	TopicEntertainment  Topic = "ENTERTAINMENT"
	TopicFinance        Topic = "FINANCE"
	TopicClimate        Topic = "CLIMATE"
	TopicUniversal      Topic = "UNIVERSAL"
	TopicUnknown        Topic = "UNKNOWN"
)

// AllTopics lists every canonical topic including UNKNOWN.
func AllTopics() []Topic {
	return []Topic{
		TopicCryptoDaily, TopicCryptoIntraday, TopicMacro, TopicRates,
		TopicElections, TopicCommodities, TopicSports, TopicGeopolitics,
		TopicEntertainment, TopicFinance, TopicClimate, TopicUniversal,
		TopicUnknown,
	}
}

// MatchableTopics lists the topics a "match all" run iterates. UNKNOWN is
// excluded: no pipeline registers for it.
func MatchableTopics() []Topic {
	return []Topic{
		TopicCryptoDaily, TopicCryptoIntraday, TopicMacro, TopicRates,
		TopicElections, TopicCommodities, TopicSports, TopicGeopolitics,
		TopicEntertainment, TopicFinance, TopicClimate, TopicUniversal,
	}
}

// ParseTopic accepts case-insensitive topic names from flags and config keys.
func ParseTopic(s string) (Topic, error) {
	t := Topic(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllTopics() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic: %q", s)
}
