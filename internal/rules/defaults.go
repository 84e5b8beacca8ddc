package rules

import "github.com/mjhoekstra/florijn/internal/model"

// Builtin returns the built-in fallback rules consulted only after the
// user-defined rule cache misses. They cover merchants common in Dutch bank
// exports; matches always carry a fixed 0.8 confidence regardless of match
// type.
func Builtin() []model.RuleDefinition {
	return []model.RuleDefinition{
		// Groceries
		{Pattern: "albert heijn", MatchType: model.MatchContains, StandardizedName: "Albert Heijn", Category: "Groceries", Priority: 10, Enabled: true},
		{Pattern: "jumbo", MatchType: model.MatchContains, StandardizedName: "Jumbo", Category: "Groceries", Priority: 10, Enabled: true},
		{Pattern: "lidl", MatchType: model.MatchContains, StandardizedName: "Lidl", Category: "Groceries", Priority: 10, Enabled: true},
		{Pattern: "aldi", MatchType: model.MatchContains, StandardizedName: "Aldi", Category: "Groceries", Priority: 10, Enabled: true},
		{Pattern: `\bplus\b`, MatchType: model.MatchRegex, StandardizedName: "Plus", Category: "Groceries", Priority: 15, Enabled: true},
		{Pattern: "picnic", MatchType: model.MatchContains, StandardizedName: "Picnic", Category: "Groceries", Priority: 10, Enabled: true},

		// Transport
		{Pattern: `\bns\b|ns groep|ns reizigers`, MatchType: model.MatchRegex, StandardizedName: "NS", Category: "Transport", Priority: 20, Enabled: true},
		{Pattern: "ov-chipkaart", MatchType: model.MatchContains, StandardizedName: "OV-chipkaart", Category: "Transport", Priority: 20, Enabled: true},
		{Pattern: "gvb", MatchType: model.MatchContains, StandardizedName: "GVB", Category: "Transport", Priority: 20, Enabled: true},
		{Pattern: "ret rotterdam", MatchType: model.MatchContains, StandardizedName: "RET", Category: "Transport", Priority: 20, Enabled: true},

		// Fuel
		{Pattern: "shell", MatchType: model.MatchContains, StandardizedName: "Shell", Category: "Fuel", Priority: 25, Enabled: true},
		{Pattern: "esso", MatchType: model.MatchContains, StandardizedName: "Esso", Category: "Fuel", Priority: 25, Enabled: true},
		{Pattern: "tango", MatchType: model.MatchContains, StandardizedName: "Tango", Category: "Fuel", Priority: 25, Enabled: true},

		// Dining and delivery
		{Pattern: "thuisbezorgd", MatchType: model.MatchContains, StandardizedName: "Thuisbezorgd.nl", Category: "Dining", Priority: 30, Enabled: true},
		{Pattern: "uber eats", MatchType: model.MatchContains, StandardizedName: "Uber Eats", Category: "Dining", Priority: 30, Enabled: true},
		{Pattern: "dominos", MatchType: model.MatchContains, StandardizedName: "Domino's", Category: "Dining", Priority: 30, Enabled: true},

		// Streaming and subscriptions
		{Pattern: "netflix", MatchType: model.MatchContains, StandardizedName: "Netflix", Category: "Streaming", Priority: 40, Enabled: true},
		{Pattern: "spotify", MatchType: model.MatchContains, StandardizedName: "Spotify", Category: "Streaming", Priority: 40, Enabled: true},
		{Pattern: "videoland", MatchType: model.MatchContains, StandardizedName: "Videoland", Category: "Streaming", Priority: 40, Enabled: true},

		// Telecom
		{Pattern: "kpn", MatchType: model.MatchContains, StandardizedName: "KPN", Category: "Telecom", Priority: 45, Enabled: true},
		{Pattern: "vodafone", MatchType: model.MatchContains, StandardizedName: "Vodafone", Category: "Telecom", Priority: 45, Enabled: true},
		{Pattern: "odido", MatchType: model.MatchContains, StandardizedName: "Odido", Category: "Telecom", Priority: 45, Enabled: true},

		// Drugstores
		{Pattern: "kruidvat", MatchType: model.MatchContains, StandardizedName: "Kruidvat", Category: "Drugstore", Priority: 50, Enabled: true},
		{Pattern: "etos", MatchType: model.MatchContains, StandardizedName: "Etos", Category: "Drugstore", Priority: 50, Enabled: true},

		// Retail
		{Pattern: "hema", MatchType: model.MatchContains, StandardizedName: "HEMA", Category: "Shopping", Priority: 55, Enabled: true},
		{Pattern: "bol.com", MatchType: model.MatchContains, StandardizedName: "bol.com", Category: "Shopping", Priority: 55, Enabled: true},
		{Pattern: "coolblue", MatchType: model.MatchContains, StandardizedName: "Coolblue", Category: "Shopping", Priority: 55, Enabled: true},

		// Insurance and utilities
		{Pattern: "zilveren kruis", MatchType: model.MatchContains, StandardizedName: "Zilveren Kruis", Category: "Insurance", Priority: 60, Enabled: true},
		{Pattern: "eneco", MatchType: model.MatchContains, StandardizedName: "Eneco", Category: "Utilities", Priority: 60, Enabled: true},
		{Pattern: "vattenfall", MatchType: model.MatchContains, StandardizedName: "Vattenfall", Category: "Utilities", Priority: 60, Enabled: true},

		// Generic bank operations, weakest signals last
		{Pattern: `geldautomaat|\batm\b`, MatchType: model.MatchRegex, StandardizedName: "Geldautomaat", Category: "Cash", Priority: 90, Enabled: true},
		{Pattern: "kosten oranjepakket", MatchType: model.MatchContains, StandardizedName: "Bankkosten", Category: "Bank Fees", Priority: 90, Enabled: true},
	}
}
