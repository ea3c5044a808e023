package office2pdf

import "context"

// LibraryStatus describes the embedded library.
type LibraryStatus struct {
	Name      string `json:"name,omitempty"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// CapabilityReport lists what this converter can use on this system.
// It is diagnostic only: every category always ends in the placeholder
// tier.
type CapabilityReport struct {
	Engine     EnginePresence            `json:"engine"`
	Embedded   LibraryStatus             `json:"embedded"`
	Categories map[FormatCategory][]Tier `json:"categories"`
}

// binaryLocator is implemented by libraries backed by an external binary.
type binaryLocator interface {
	BinaryPath() (string, bool)
}

// Capabilities reports engine presence (probing on first call), embedded
// library availability, and the tiers each category would try.
func (c *Converter) Capabilities(ctx context.Context) CapabilityReport {
	var report CapabilityReport

	if c.engine != nil {
		report.Engine = c.engine.Presence(ctx)
	}
	if c.library != nil {
		report.Embedded = LibraryStatus{Name: c.library.Name(), Available: c.library.Available()}
		if loc, ok := c.library.(binaryLocator); ok {
			report.Embedded.Path, _ = loc.BinaryPath()
		}
	}

	report.Categories = make(map[FormatCategory][]Tier, len(Categories))
	for _, cat := range Categories {
		var tiers []Tier
		if report.Engine.Available {
			tiers = append(tiers, TierEngine)
		}
		if report.Embedded.Available {
			tiers = append(tiers, TierEmbedded)
		}
		report.Categories[cat] = append(tiers, TierExtraction, TierPlaceholder)
	}
	return report
}
