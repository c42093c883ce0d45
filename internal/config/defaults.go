package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// FilterDefaultApplier handles filter defaults.
type FilterDefaultApplier struct{}

func (FilterDefaultApplier) Domain() string { return "filter" }

func (FilterDefaultApplier) ApplyDefaults(cfg *Config) {
	la := &cfg.Filter.VarLookahead
	if la.MinOffset == 0 && la.MaxOffset == 0 {
		la.MinOffset = 4
		la.MaxOffset = 6
	}
}

// FixHTMLDefaultApplier handles HTML post-processor defaults.
type FixHTMLDefaultApplier struct{}

func (FixHTMLDefaultApplier) Domain() string { return "fixhtml" }

func (FixHTMLDefaultApplier) ApplyDefaults(cfg *Config) {
	fx := &cfg.FixHTML
	if fx.Extension == "" {
		fx.Extension = ".html"
	}
	if fx.SourceSuffix == "" {
		fx.SourceSuffix = "_source.html"
	}
	if len(fx.Namespaces) == 0 {
		fx.Namespaces = map[string]string{"html": XHTMLNamespace}
	}
	if len(fx.SeparatorQueries) == 0 {
		fx.SeparatorQueries = []SeparatorQuery{
			{Name: "a.el", Query: classQuery("a", "el")},
			{Name: "a.elRef", Query: classQuery("a", "elRef")},
			{Name: "area@alt", Query: "//html:area", Attribute: "alt"},
		}
	}
	if fx.LinkQuery == "" {
		fx.LinkQuery = "//*[@href]"
	}
	if fx.ManualLinkPattern == "" {
		fx.ManualLinkPattern = `^https://php\.net/manual/en/[\w.-]+?\.php\.html$`
	}
	if fx.ManualLinkSuffix == "" {
		fx.ManualLinkSuffix = ".html"
	}
}

// XHTMLNamespace is the namespace of Doxygen's HTML output.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// classQuery selects XHTML elements of the given name carrying class.
func classQuery(element, class string) string {
	return "//html:" + element + "[contains(concat(' ', normalize-space(@class), ' '), ' " + class + " ')]"
}

var defaultAppliers = []DefaultApplier{
	FilterDefaultApplier{},
	FixHTMLDefaultApplier{},
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}
